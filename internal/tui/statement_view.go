package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bytebank/ledgerkit/internal/store"
)

// View renders the current view (Bubble Tea interface).
func (m StatementModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" +
			SubtleStyle.Render("Press q to quit")
	case ViewStateLoading:
		return RenderLoading(m.loadingState)
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateExtract:
		return m.renderExtractView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

// renderListView renders the balance summary, the table, the pager line
// and the status bar.
func (m StatementModel) renderListView() string {
	var sections []string

	sections = append(sections, m.renderBalanceSummary())
	sections = append(sections, m.table.View())
	sections = append(sections, m.renderPagerLine())
	sections = append(sections, m.renderStatusBar())

	if m.showFilter {
		filterView := LabelStyle.Render("Filter: ") + m.textInput.View()
		sections = append(sections, filterView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBalanceSummary renders the boxed balance header.
func (m StatementModel) renderBalanceSummary() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("ACCOUNT STATEMENT"))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Balance:      "))
	switch m.balance.Status {
	case store.StatusSuccess:
		style := IncomeStyle
		if m.balance.Amount < 0 {
			style = ExpenseStyle
		}
		content.WriteString(style.Render(fmt.Sprintf("%.2f", m.balance.Amount)))
	case store.StatusError:
		content.WriteString(CriticalStyle.Render("unavailable"))
	default:
		content.WriteString(SubtleStyle.Render("loading..."))
	}
	content.WriteString(LabelStyle.Render("    Transactions: "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%d", m.transactions.TotalItems)))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

// renderPagerLine shows the current page within the server-side paging.
func (m StatementModel) renderPagerLine() string {
	return SubtleStyle.Render(fmt.Sprintf(
		"Page %d/%d | %c/%c to change page",
		m.transactions.CurrentPage, m.totalPages(), '←', '→',
	))
}

// renderStatusBar displays the filter status and key hints.
func (m StatementModel) renderStatusBar() string {
	filterStatus := ""
	if m.textInput.Value() != "" {
		filterStatus = fmt.Sprintf("Filtered: %d/%d | ", len(m.visible), len(m.transactions.Transactions))
	}
	return SubtleStyle.Render(filterStatus +
		"Press enter for detail, 'g' for monthly view, '/' to filter, 'q' to quit")
}

// renderExtractView renders the month-bucketed statement.
func (m StatementModel) renderExtractView() string {
	groups := m.MonthGroups()
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("MONTHLY EXTRACT"))
	content.WriteString("\n\n")

	if len(groups) == 0 {
		content.WriteString(SubtleStyle.Render("No transactions on this page."))
	}

	for _, group := range groups {
		content.WriteString(LabelStyle.Render(group.Label))
		content.WriteString(LabelStyle.Render("  (net "))
		netStyle := IncomeStyle
		if group.Net() < 0 {
			netStyle = ExpenseStyle
		}
		content.WriteString(netStyle.Render(fmt.Sprintf("%.2f", group.Net())))
		content.WriteString(LabelStyle.Render(")"))
		content.WriteString("\n")

		for _, tx := range group.Transactions {
			fmt.Fprintf(&content, "  %s  %-36s %s\n",
				tx.Date.UTC().Format("2006-01-02"),
				truncateDescription(tx.Description),
				renderAmount(tx),
			)
		}
		content.WriteString("\n")
	}

	content.WriteString(SubtleStyle.Render("Press 'g' to return to the table, 'q' to quit"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

// renderDetailView renders the detail screen for the selected transaction.
func (m StatementModel) renderDetailView() string {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return SubtleStyle.Render("Selection out of range. Press ESC to return.")
	}

	tx := m.visible[m.selected]
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("TRANSACTION DETAIL"))
	content.WriteString("\n\n")

	content.WriteString(LabelStyle.Render("ID:           "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%d", tx.ID)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Date:         "))
	content.WriteString(ValueStyle.Render(tx.Date.UTC().Format("2006-01-02 15:04")))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Type:         "))
	content.WriteString(ValueStyle.Render(string(tx.Type)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Amount:       "))
	content.WriteString(renderAmount(tx))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Description:  "))
	content.WriteString(ValueStyle.Render(tx.Description))
	content.WriteString("\n")

	if tx.HasAttachment() {
		content.WriteString("\n")
		content.WriteString(HeaderStyle.Render("ATTACHMENT"))
		content.WriteString("\n")
		content.WriteString(LabelStyle.Render("  Name:       "))
		content.WriteString(ValueStyle.Render(tx.Attachment.OriginalName))
		content.WriteString("\n")
		content.WriteString(LabelStyle.Render("  Stored as:  "))
		content.WriteString(ValueStyle.Render(tx.Attachment.Filename))
		content.WriteString("\n")
	}

	content.WriteString(SubtleStyle.Render("\nPress ESC to return"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}
