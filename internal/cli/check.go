package cli

import (
	"github.com/spf13/cobra"
)

// newCheckCmd is the periodic-invoker entry point. It never returns an
// error: the external scheduler must always see a clean exit, so
// everything that goes wrong is logged and swallowed here.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single probe-and-report cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync() //nolint:errcheck

			r, _, err := buildRunner(log)
			if err != nil {
				log.Errorf("❌ %v", err)
				return nil
			}

			r.RunOnce()
			return nil
		},
	}
}
