package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newBalanceCmd creates the "balance" command.
func newBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "balance",
		Short:   "Show the current account balance",
		Example: `  ledgerkit balance`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd)
			defer a.close()

			state, err := a.facade.LoadBalance(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading balance: %w", err)
			}
			renderBalance(cmd.OutOrStdout(), state.Amount)
			return nil
		},
	}
	return cmd
}
