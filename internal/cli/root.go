// Package cli implements the ledgerkit command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bytebank/ledgerkit/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	apiURL     string
	token      string
	userID     string
	noCache    bool
	debug      bool
}

// NewRootCmd creates the root Cobra command for the ledgerkit CLI. It
// loads configuration, wires logging and tracing, and registers the
// subcommands (tx, balance, overview, attachment, suggest, config).
func NewRootCmd(ver string) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:     "ledgerkit",
		Short:   "Bytebank ledger CLI",
		Long:    "Ledgerkit: browse and manage a bytebank account statement from the terminal",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			flags.applyOverrides(cfg)
			setupLogging(cmd, cfg, flags.debug)
			setConfig(cmd, cfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.ledgerkit/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "session token (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.userID, "user", "", "account user id (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "disable the response cache for this invocation")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newTxCmd(),
		newBalanceCmd(),
		NewOverviewCmd(),
		newAttachmentCmd(),
		NewSuggestCmd(),
		newConfigCmd(),
	)

	return cmd
}

// applyOverrides overlays explicitly-set CLI flags onto the loaded config.
func (f rootFlags) applyOverrides(cfg *config.Config) {
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}
	if f.token != "" {
		cfg.Session.Token = f.token
	}
	if f.userID != "" {
		cfg.Session.UserID = f.userID
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
}

const rootCmdExample = `  # Show the statement, newest first
  ledgerkit tx list

  # Show page 2, five per page, sorted by amount ascending
  ledgerkit tx list --page 2 --limit 5 --sort amount --order asc

  # Record an expense with a receipt
  ledgerkit tx create --type expense --amount 42.10 --description "groceries" --attach receipt.pdf

  # Correct a transaction's description
  ledgerkit tx update 77 --description "rent march"

  # Remove a transaction
  ledgerkit tx delete 77

  # Current balance
  ledgerkit balance

  # Balance and statement side by side (interactive when on a TTY)
  ledgerkit overview

  # Download an attachment
  ledgerkit attachment download 4d1f-receipt.pdf -o receipt.pdf

  # Initialize configuration
  ledgerkit config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd())
	return cmd
}
