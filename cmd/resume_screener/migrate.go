package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and history tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		store, err := rt.store(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
