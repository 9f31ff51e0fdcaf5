package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	reconciliationService "github.com/cmlabs-hris/timebank-backend-go/internal/service/reconciliation"
	"github.com/spf13/cobra"
)

var (
	reconcileDate     string
	reconcileWorkers  int
	reconcileEmployee string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle one day's clock events into the hour bank",
	Long: `Reconcile every active employee for one calendar day and write the hour-bank
entries. The day defaults to yesterday in the configured timezone. Running it
again for the same day replaces the entries.`,
	Example: `
  # Settle yesterday
  timebank reconcile

  # Re-run a specific day with more workers
  timebank reconcile --date 2025-03-10 --workers 16

  # Re-run a single employee
  timebank reconcile --date 2025-03-10 --employee 0195a1b2-...
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, stores, err := environment(ctx)
		if err != nil {
			return err
		}
		defer stores.Close()

		if cmd.Flags().Changed("workers") {
			cfg.Reconciliation.Workers = reconcileWorkers
		}

		services, err := bootstrap.NewServices(cfg, stores)
		if err != nil {
			return err
		}
		engine := services.Engine

		date, err := reconciliationService.ParseTargetDate(reconcileDate, engine.Now(), engine.Location())
		if err != nil {
			return err
		}

		if reconcileEmployee != "" {
			result, err := engine.ReconcileDay(ctx, reconcileEmployee, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s, %d minutes\n",
				result.EmployeeID, utils.FormatDate(result.Date), result.Outcome, result.Minutes)
			return nil
		}

		run, err := engine.RunBatch(ctx, date)
		if err != nil {
			return err
		}
		printRun(cmd, run)
		return nil
	},
}

func printRun(cmd *cobra.Command, run reconciliation.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reconcile completed for %s. Employees processed: %d, Failed: %d, Took: %s\n",
		utils.FormatDate(run.Date), run.Processed, run.Failed, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	outcomes := make([]string, 0, len(run.Counts))
	for outcome := range run.Counts {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		fmt.Fprintf(out, "  %-12s %d\n", outcome, run.Counts[reconciliation.Outcome(outcome)])
	}
	for _, f := range run.Failures {
		fmt.Fprintf(out, "  failed %s: %s\n", f.EmployeeID, f.Error)
	}
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileDate, "date", "", "Day to reconcile (YYYY-MM-DD), defaults to yesterday")
	reconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", 0, "Concurrent employees, overrides RECONCILIATION_WORKERS")
	reconcileCmd.Flags().StringVar(&reconcileEmployee, "employee", "", "Reconcile only this employee ID")
}
