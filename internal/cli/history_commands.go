// Package cli provides run history commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jtdman/CashRegister/internal/config"
	"github.com/jtdman/CashRegister/internal/constants"
	"github.com/jtdman/CashRegister/internal/history"
)

// newHistoryCmd creates the 'history' command group.
func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local run history",
		Long: `Run history commands for cashregister.

Commands:
  list  - Show recent runs
  clear - Delete all recorded runs`,
	}

	historyCmd.AddCommand(newHistoryListCmd())
	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// newHistoryListCmd creates the 'history list' command.
func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openHistoryStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(GetContext(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			for _, run := range runs {
				when := run.StartedAt.Format("2006-01-02 15:04:05")
				if run.Status == history.StatusOK {
					fmt.Printf("%s  %-5s  %s → %s (%d transactions)\n",
						when, run.Status, run.InputPath, run.OutputPath, run.Transactions)
				} else {
					fmt.Printf("%s  %-5s  %s: %s\n",
						when, run.Status, run.InputPath, run.ErrorMessage)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultHistoryLimit, "Maximum number of runs to show")

	return cmd
}

// newHistoryClearCmd creates the 'history clear' command.
func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openHistoryStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(GetContext())
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Printf("Removed %d run(s)\n", removed)
			return nil
		},
	}

	return cmd
}

// openHistoryStore opens the history database for direct inspection. Unlike
// openHistory it reports failures to the caller.
func openHistoryStore(cfg *config.Config) (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return store, nil
}
