package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the resume editing sessions over REST.

Sessions are persisted in PostgreSQL when DATABASE_URL is set and kept in memory otherwise.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if serveMigrate {
			if err := database.Migrate(context.Background()); err != nil {
				return err
			}
		}
		opts = append(opts, server.WithDatabase(database))
	} else {
		logger.Warn("DATABASE_URL not set; sessions are kept in memory only")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; AI requests must supply their own key")
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
