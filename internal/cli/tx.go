package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bytebank/ledgerkit/internal/extract"
	"github.com/bytebank/ledgerkit/internal/ledger"
)

// newTxCmd creates the tx command group.
func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction commands",
	}
	cmd.AddCommand(NewTxListCmd(), NewTxCreateCmd(), NewTxUpdateCmd(), NewTxDeleteCmd())
	return cmd
}

// txListParams holds the flags for "tx list".
type txListParams struct {
	page   int
	limit  int
	sort   string
	order  string
	output string
}

// NewTxListCmd creates the "tx list" command.
func NewTxListCmd() *cobra.Command {
	var params txListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List statement transactions",
		Example: `  # Newest first, default page size
  ledgerkit tx list

  # Page 2, five per page, by amount ascending
  ledgerkit tx list --page 2 --limit 5 --sort amount --order asc

  # Month-bucketed view
  ledgerkit tx list --output extract`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd)
			defer a.close()

			state, err := a.facade.LoadTransactions(cmd.Context(),
				a.listParams(params.page, params.limit, params.sort, params.order))
			if err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}
			return renderStatement(cmd.OutOrStdout(), params.output, state, extract.ParseLocale(a.cfg.Locale))
		},
	}

	cmd.Flags().IntVar(&params.page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&params.limit, "limit", 0, "transactions per page")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort field (date, amount, description)")
	cmd.Flags().StringVar(&params.order, "order", "", "sort order (asc, desc)")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format (table, extract, json)")

	return cmd
}

// txCreateParams holds the flags for "tx create".
type txCreateParams struct {
	txType      string
	amount      float64
	date        string
	description string
	attach      string
}

// NewTxCreateCmd creates the "tx create" command.
func NewTxCreateCmd() *cobra.Command {
	var params txCreateParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new transaction",
		Example: `  ledgerkit tx create --type expense --amount 42.10 --description "groceries"

  # With an attached receipt
  ledgerkit tx create --type expense --amount 42.10 --description "groceries" --attach receipt.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txType, err := parseTransactionType(params.txType)
			if err != nil {
				return err
			}
			date, err := parseDate(params.date)
			if err != nil {
				return err
			}
			file, err := loadAttachment(params.attach)
			if err != nil {
				return err
			}

			a := newApp(cmd)
			defer a.close()

			tx := ledger.Transaction{
				Type:        txType,
				Amount:      params.amount,
				Date:        date,
				Description: params.description,
			}
			if err := a.facade.CreateTransaction(cmd.Context(), tx, file); err != nil {
				return fmt.Errorf("creating transaction: %w", err)
			}

			cmd.Println("Transaction recorded.")
			renderBalance(cmd.OutOrStdout(), a.facade.Balance().Amount)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.txType, "type", "", "transaction type (income, expense)")
	cmd.Flags().Float64Var(&params.amount, "amount", 0, "transaction amount (positive)")
	cmd.Flags().StringVar(&params.date, "date", "", "transaction date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&params.description, "description", "", "transaction description")
	cmd.Flags().StringVar(&params.attach, "attach", "", "path to a receipt to attach")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// NewTxUpdateCmd creates the "tx update" command.
func NewTxUpdateCmd() *cobra.Command {
	var (
		txType      string
		amount      float64
		date        string
		description string
		attach      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Modify a transaction's fields",
		Args:  cobra.ExactArgs(1),
		Example: `  ledgerkit tx update 77 --description "rent march"

  # Replace the receipt
  ledgerkit tx update 77 --attach corrected.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			var patch ledger.TransactionPatch
			if cmd.Flags().Changed("type") {
				parsed, typeErr := parseTransactionType(txType)
				if typeErr != nil {
					return typeErr
				}
				patch.Type = &parsed
			}
			if cmd.Flags().Changed("amount") {
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("date") {
				parsed, dateErr := parseDate(date)
				if dateErr != nil {
					return dateErr
				}
				patch.Date = &parsed
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}

			file, err := loadAttachment(attach)
			if err != nil {
				return err
			}

			a := newApp(cmd)
			defer a.close()

			if err := a.facade.UpdateTransaction(cmd.Context(), id, patch, file); err != nil {
				return fmt.Errorf("updating transaction %d: %w", id, err)
			}

			cmd.Printf("Transaction %d updated.\n", id)
			renderBalance(cmd.OutOrStdout(), a.facade.Balance().Amount)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "transaction type (income, expense)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount (positive)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&attach, "attach", "", "path to a receipt to attach")

	return cmd
}

// NewTxDeleteCmd creates the "tx delete" command.
func NewTxDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		Example: `  ledgerkit tx delete 77`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			a := newApp(cmd)
			defer a.close()

			if err := a.facade.DeleteTransaction(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting transaction %d: %w", id, err)
			}

			cmd.Printf("Transaction %d deleted.\n", id)
			renderBalance(cmd.OutOrStdout(), a.facade.Balance().Amount)
			return nil
		},
	}
	return cmd
}

// parseTransactionType validates the --type flag.
func parseTransactionType(s string) (ledger.TransactionType, error) {
	switch ledger.TransactionType(s) {
	case ledger.TypeIncome:
		return ledger.TypeIncome, nil
	case ledger.TypeExpense:
		return ledger.TypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q (expected income or expense)", s)
	}
}

// parseDate parses YYYY-MM-DD or RFC3339, defaulting to today's date.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return t, nil
}

// loadAttachment reads the file at path into an upload payload. An empty
// path means no attachment.
func loadAttachment(path string) (*ledger.File, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flag
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	return &ledger.File{
		Name:    filepath.Base(path),
		Content: content,
	}, nil
}
