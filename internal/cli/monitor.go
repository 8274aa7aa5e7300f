package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// newMonitorCmd runs check cycles in-process on a fixed interval, for
// machines that keep the watcher running instead of scheduling it
// externally. The ticks are sequential, so the state file never sees
// concurrent writers.
func newMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run probe cycles continuously at the configured interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync() //nolint:errcheck

			r, cfg, err := buildRunner(log)
			if err != nil {
				log.Errorf("❌ %v", err)
				return nil
			}

			interval := time.Duration(cfg.Monitor.Interval) * time.Second
			log.Infof("🔍 Reservation watcher started, checking every %s", interval)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			if r.RunOnce() {
				log.Infof("🛑 Reservation found, watcher stopping")
				return nil
			}

			for {
				select {
				case <-ticker.C:
					if r.RunOnce() {
						log.Infof("🛑 Reservation found, watcher stopping")
						return nil
					}
					log.Infof("⏳ Next check in %s", interval)
				case <-sigChan:
					log.Infof("Stopping watcher")
					return nil
				}
			}
		},
	}
}
