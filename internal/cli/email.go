package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"grands-buffets-watch/internal/notifier"
)

func newTestEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-email",
		Short: "Send a test email with the configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync() //nolint:errcheck

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			n := notifier.NewEmailNotifier(cfg.Email, log)
			if err := n.TestConnection(); err != nil {
				return fmt.Errorf("email test failed: %w", err)
			}

			fmt.Printf("Test email sent to %s\n", cfg.Email.To)
			return nil
		},
	}
}
