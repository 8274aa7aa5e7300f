package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grands-buffets-watch/internal/state"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the durable run state",
	}
	cmd.AddCommand(newStateShowCmd(), newStateResetCmd())
	return cmd
}

func newStateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current run state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := state.NewFileStore(cfg.State.File, nil)
			st := store.Load()

			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("State file: %s\n%s\n", store.Path(), out)
			return nil
		},
	}
}

// newStateResetCmd re-arms the watcher after a find. Deleting the state
// file clears the reservation_found flag along with all counters.
func newStateResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the run state file and re-arm the watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := state.NewFileStore(cfg.State.File, nil)
			if err := store.Reset(); err != nil {
				return fmt.Errorf("failed to reset state: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Run state cleared: %s\n", store.Path())
			return nil
		},
	}
}
