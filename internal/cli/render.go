package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/bytebank/ledgerkit/internal/extract"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/store"
)

// Output format names accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputGroup = "extract"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	incomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// renderStatement dispatches to the renderer for the requested format.
func renderStatement(w io.Writer, format string, state store.TransactionsState, locale language.Tag) error {
	switch format {
	case outputTable:
		renderStatementTable(w, state)
		return nil
	case outputGroup:
		renderStatementExtract(w, state.Transactions, locale)
		return nil
	case outputJSON:
		return renderStatementJSON(w, state)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, extract, json)", format)
	}
}

// renderStatementTable prints the statement page as a fixed-width table.
func renderStatementTable(w io.Writer, state store.TransactionsState) {
	if len(state.Transactions) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No transactions."))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(
		"%-6s %-12s %-36s %-9s %12s  %s",
		"ID", "DATE", "DESCRIPTION", "TYPE", "AMOUNT", "ATTACHMENT",
	)))
	for _, tx := range state.Transactions {
		attachment := "-"
		if tx.HasAttachment() {
			attachment = tx.Attachment.OriginalName
		}
		fmt.Fprintf(w, "%-6d %-12s %-36s %-9s %12s  %s\n",
			tx.ID,
			tx.Date.UTC().Format("2006-01-02"),
			clip(tx.Description, 36),
			tx.Type,
			renderSignedAmount(tx),
			attachment,
		)
	}

	totalPages := (state.TotalItems + state.PageSize - 1) / state.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf(
		"Page %d/%d, %d transactions total", state.CurrentPage, totalPages, state.TotalItems,
	)))
}

// renderStatementExtract prints the month-bucketed view.
func renderStatementExtract(w io.Writer, transactions []ledger.Transaction, locale language.Tag) {
	groups := extract.GroupByMonth(transactions, locale)
	if len(groups) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No transactions."))
		return
	}

	for _, group := range groups {
		fmt.Fprintln(w, headerStyle.Render(group.Label)+
			subtleStyle.Render(fmt.Sprintf("  (net %.2f)", group.Net())))
		for _, tx := range group.Transactions {
			fmt.Fprintf(w, "  %s  %-36s %s\n",
				tx.Date.UTC().Format("2006-01-02"),
				clip(tx.Description, 36),
				renderSignedAmount(tx),
			)
		}
		fmt.Fprintln(w)
	}
}

// statementJSON is the machine-readable statement shape.
type statementJSON struct {
	Transactions []ledger.Transaction `json:"transactions"`
	TotalItems   int                  `json:"totalItems"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
}

func renderStatementJSON(w io.Writer, state store.TransactionsState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(statementJSON{
		Transactions: state.Transactions,
		TotalItems:   state.TotalItems,
		Page:         state.CurrentPage,
		Limit:        state.PageSize,
	})
}

// renderBalance prints the balance with income/expense coloring.
func renderBalance(w io.Writer, amount float64) {
	style := incomeStyle
	if amount < 0 {
		style = expenseStyle
	}
	fmt.Fprintln(w, headerStyle.Render("Balance: ")+style.Render(fmt.Sprintf("%.2f", amount)))
}

func renderSignedAmount(tx ledger.Transaction) string {
	if tx.IsIncome() {
		return incomeStyle.Render(fmt.Sprintf("+%.2f", tx.Amount))
	}
	return expenseStyle.Render(fmt.Sprintf("-%.2f", tx.Amount))
}

func clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen-3]) + "..."
}
