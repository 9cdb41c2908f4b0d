package cli

import (
	"github.com/spf13/cobra"

	"github.com/bytebank/ledgerkit/internal/config"
	"github.com/bytebank/ledgerkit/internal/logging"
)

// setupLogging configures logging from the loaded config and the --debug
// flag, then installs the logger and a trace ID into the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug bool) {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	if debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
		logCfg.File = ""
	}
	if logCfg.File != "" {
		logCfg.Output = logging.OutputFile
	}

	base := logging.New(logCfg)
	logger = logging.ComponentLogger(base, "cli")

	ctx := logger.WithContext(cmd.Context())
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")
}
