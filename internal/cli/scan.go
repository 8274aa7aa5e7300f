package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"grands-buffets-watch/internal/probe"
	"grands-buffets-watch/internal/scraper"
)

// newScanCmd lists the current candidate dates from a plain HTTP fetch,
// without launching a browser or probing anything. Useful for checking
// keyword and horizon settings against the live page.
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List candidate dates from an HTTP snapshot (no probing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync() //nolint:errcheck

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log.Infof("🌐 Fetching %s", cfg.Reservation.URL)
			snapshot, err := scraper.New(cfg.Reservation.URL).FetchSnapshot()
			if err != nil {
				return err
			}

			filter := &probe.Filter{
				DayKeywords:   cfg.Reservation.DayKeywords,
				HorizonMonths: cfg.Reservation.MonthsAhead,
			}
			candidates, stats := filter.Select(snapshot)

			fmt.Printf("Buttons seen:     %d\n", stats.Total)
			fmt.Printf("Day matching:     %d\n", stats.DayMatching)
			fmt.Printf("Enabled:          %d\n", stats.Enabled)
			fmt.Printf("Within horizon:   %d\n", stats.InHorizon)
			fmt.Printf("Final candidates: %d\n\n", stats.Final)

			for i, c := range candidates {
				fmt.Printf("%2d. %s\n", i+1, c.Label)
			}
			if len(candidates) == 0 {
				fmt.Println("No candidate dates right now. Note the page may render its calendar via JavaScript; the check command sees the full rendered page.")
			}
			return nil
		},
	}
}
