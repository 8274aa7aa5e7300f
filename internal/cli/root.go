// Package cli wires the buffetwatch commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grands-buffets-watch/internal/config"
	"grands-buffets-watch/internal/notifier"
	"grands-buffets-watch/internal/runner"
	"grands-buffets-watch/internal/state"
)

var (
	cfgPath string
	verbose bool
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buffetwatch",
		Short: "Watch the Les Grands Buffets reservation calendar for real availability",
		Long: `buffetwatch probes the Les Grands Buffets reservation calendar for
Friday/Saturday dates with real availability for the configured guest
count, and emails an operator the moment one is found.

It is designed to be invoked periodically (cron, CI schedule): each
check is a single probe-and-report cycle that records its progress in a
durable state file and always exits cleanly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: auto-discover)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCheckCmd(),
		newMonitorCmd(),
		newScanCmd(),
		newStateCmd(),
		newTestEmailCmd(),
	)
	return root
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// buildRunner assembles the full stack from configuration.
func buildRunner(log *zap.SugaredLogger) (*runner.Runner, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	store := state.NewFileStore(cfg.State.File, log)
	dispatcher := notifier.NewEmailNotifier(cfg.Email, log)
	if !dispatcher.Enabled() {
		log.Warnf("⚠️ Email credentials not configured — probing runs, notifications are disabled")
	}

	return runner.New(cfg, store, dispatcher, log), cfg, nil
}
