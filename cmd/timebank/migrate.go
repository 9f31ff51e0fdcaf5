package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, stores, err := environment(ctx)
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", cfg.Store.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
