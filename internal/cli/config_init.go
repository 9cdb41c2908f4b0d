package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bytebank/ledgerkit/internal/config"
)

// NewConfigInitCmd creates the "config init" command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a default config file",
		Example: `  ledgerkit config init`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return fmt.Errorf("could not determine config path")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("path", "", "config file path (default ~/.ledgerkit/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// NewConfigShowCmd creates the "config show" command, printing the
// effective configuration after file, environment and flag overlays.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration",
		Example: `  ledgerkit config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd)

			// Never print credentials.
			redacted := *cfg
			if redacted.Session.Token != "" {
				redacted.Session.Token = "[redacted]"
			}

			data, err := yaml.Marshal(&redacted)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
