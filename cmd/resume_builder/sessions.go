package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/spf13/cobra"
)

var (
	sessionsLimit     int
	sessionsOlderThan time.Duration
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and prune persisted editing sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recently updated sessions",
	RunE:  runSessionsList,
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions that have not been updated recently",
	RunE:  runSessionsPrune,
}

func init() {
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 50, "Maximum number of sessions to list")
	sessionsPruneCmd.Flags().DurationVar(&sessionsOlderThan, "older-than", 0, "Delete sessions idle for longer than this (defaults to the session TTL)")

	sessionsCmd.AddCommand(sessionsListCmd, sessionsPruneCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func connectDB(ctx context.Context) (*db.DB, error) {
	if appConfig.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(ctx, appConfig.DatabaseURL)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	sessions, err := database.ListSessions(ctx, sessionsLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func runSessionsPrune(cmd *cobra.Command, _ []string) error {
	olderThan := sessionsOlderThan
	if olderThan <= 0 {
		olderThan = time.Duration(appConfig.SessionTTLHours) * time.Hour
	}

	ctx := context.Background()
	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.DeleteSessionsBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d session(s) idle for more than %s\n", n, olderThan)
	return nil
}
