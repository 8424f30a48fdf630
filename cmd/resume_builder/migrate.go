package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if appConfig.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	ctx := context.Background()

	database, err := db.Connect(ctx, appConfig.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}
