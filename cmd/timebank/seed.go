package main

import (
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/fixtures"
	"github.com/spf13/cobra"
)

var seedRole string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default schedules and pause rules",
	Long: `Create the default schedules ("Standard Office Hours" Mon-Fri 08:00-17:00 with a
one hour lunch, a night shift and a priority on-call shift) and the default
break sequence for one job role. Existing rows are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, stores, err := environment(ctx)
		if err != nil {
			return err
		}
		defer stores.Close()

		result, err := fixtures.Seed(ctx, stores.Schedules, stores.PauseRules, seedRole)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seed completed. Schedules created: %d, Pause rules created: %d\n",
			result.SchedulesCreated, result.PauseRulesCreated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedRole, "role", fixtures.DefaultPauseRole, "Job role that receives the default pause rules")
}
