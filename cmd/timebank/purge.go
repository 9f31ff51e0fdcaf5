package main

import (
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/service/maintenance"
	"github.com/spf13/cobra"
)

var purgeConfirm bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all clock events and hour-bank entries",
	Long: `Delete every clock event and hour-bank entry and set every employee offline.
Schedules, pause rules, requests, excuses and holidays are kept.

This cannot be undone and refuses to run without --confirm.`,
	Example: `
  timebank purge --confirm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !purgeConfirm {
			return fmt.Errorf("%w: pass --confirm", maintenance.ErrPurgeNotConfirmed)
		}

		ctx := cmd.Context()
		_, stores, err := environment(ctx)
		if err != nil {
			return err
		}
		defer stores.Close()

		purger := maintenance.NewPurger(stores.Transactor, stores.Events, stores.HourBank, stores.Employees)
		result, err := purger.Purge(ctx, purgeConfirm)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Purge completed. Clock events deleted: %d, Hour-bank entries deleted: %d, Employees reset: %d\n",
			result.EventsDeleted, result.EntriesDeleted, result.EmployeesReset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVar(&purgeConfirm, "confirm", false, "Confirm deletion of all operational data")
}
