package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the "suggest" command for category suggestions.
func NewSuggestCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest categories for a transaction description",
		Args:  cobra.ExactArgs(1),
		Example: `  ledgerkit suggest "uber ride"
  ledgerkit suggest "monthly salary" --type income`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseTransactionType(txType)
			if err != nil {
				return err
			}

			a := newApp(cmd)
			defer a.close()

			suggestions, err := a.facade.CategorySuggestions(cmd.Context(), args[0], parsed)
			if err != nil {
				return fmt.Errorf("fetching suggestions: %w", err)
			}

			if len(suggestions) == 0 {
				cmd.Println("No suggestions.")
				return nil
			}
			for _, s := range suggestions {
				cmd.Printf("- %s\n", s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (income, expense)")
	return cmd
}
