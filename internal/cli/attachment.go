package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newAttachmentCmd creates the attachment command group.
func newAttachmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachment",
		Short: "Attachment commands",
	}
	cmd.AddCommand(NewAttachmentDownloadCmd())
	return cmd
}

// NewAttachmentDownloadCmd creates the "attachment download" command.
func NewAttachmentDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <filename>",
		Short: "Download a transaction attachment",
		Args:  cobra.ExactArgs(1),
		Example: `  # Write to the stored filename in the current directory
  ledgerkit attachment download 4d1f-receipt.pdf

  # Write to a specific path
  ledgerkit attachment download 4d1f-receipt.pdf -o receipt.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			a := newApp(cmd)
			defer a.close()

			content, err := a.facade.DownloadAttachment(cmd.Context(), filename)
			if err != nil {
				return fmt.Errorf("downloading attachment %s: %w", filename, err)
			}

			target := output
			if target == "" {
				target = filename
			}
			if err := os.WriteFile(target, content, 0600); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}

			cmd.Printf("Wrote %s (%d bytes)\n", target, len(content))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (defaults to the stored filename)")
	return cmd
}
