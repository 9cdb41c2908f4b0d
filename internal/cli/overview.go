package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/bytebank/ledgerkit/internal/extract"
	"github.com/bytebank/ledgerkit/internal/ledger"
	"github.com/bytebank/ledgerkit/internal/logging"
	"github.com/bytebank/ledgerkit/internal/store"
	"github.com/bytebank/ledgerkit/internal/tui"
)

// overviewParams holds the flags for the overview command.
type overviewParams struct {
	page   int
	limit  int
	sort   string
	order  string
	output string
	plain  bool
}

// NewOverviewCmd creates the "overview" command: balance and statement
// together, interactive when stdout is a terminal.
func NewOverviewCmd() *cobra.Command {
	var params overviewParams

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Balance and statement dashboard",
		Example: `  # Interactive dashboard (when on a TTY)
  ledgerkit overview

  # Plain text output
  ledgerkit overview --plain

  # Month-bucketed plain output
  ledgerkit overview --plain --output extract`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeOverview(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&params.limit, "limit", 0, "transactions per page")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort field (date, amount, description)")
	cmd.Flags().StringVar(&params.order, "order", "", "sort order (asc, desc)")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format (table, extract, json)")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "force non-interactive plain text output")

	return cmd
}

func executeOverview(cmd *cobra.Command, params overviewParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	a := newApp(cmd)
	defer a.close()

	listParams := a.listParams(params.page, params.limit, params.sort, params.order)
	locale := extract.ParseLocale(a.cfg.Locale)

	if shouldUseInteractiveTUI(params.output, params.plain) {
		return runInteractiveStatement(cmd, a, listParams, locale)
	}

	// Load balance and statement concurrently; both go through the
	// pipeline, so the snapshots below reflect the settled outcomes.
	var (
		txState  store.TransactionsState
		balState store.BalanceState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := a.facade.LoadTransactions(gctx, listParams)
		if err != nil {
			return fmt.Errorf("loading transactions: %w", err)
		}
		txState = state
		return nil
	})
	g.Go(func() error {
		state, err := a.facade.LoadBalance(gctx)
		if err != nil {
			return fmt.Errorf("loading balance: %w", err)
		}
		balState = state
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Int("transactions", len(txState.Transactions)).
		Int("total", txState.TotalItems).
		Msg("overview loaded")

	renderBalance(cmd.OutOrStdout(), balState.Amount)
	return renderStatement(cmd.OutOrStdout(), params.output, txState, locale)
}

// shouldUseInteractiveTUI determines if the interactive TUI should be used.
func shouldUseInteractiveTUI(outputFormat string, plainFlag bool) bool {
	if outputFormat != outputTable {
		return false
	}
	if plainFlag {
		return false
	}
	return isTerminal(os.Stdout)
}

// runInteractiveStatement launches the Bubble Tea statement browser.
func runInteractiveStatement(
	cmd *cobra.Command,
	a *app,
	params ledger.ListParams,
	locale language.Tag,
) error {
	model := tui.NewStatementModel(cmd.Context(), a.facade, params, locale)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
