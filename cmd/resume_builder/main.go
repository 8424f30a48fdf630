// Package main provides the resume_builder CLI and HTTP API server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// Resolved in PersistentPreRunE.
	appConfig config.Config
	logger    *slog.Logger
	printer   *observability.Printer
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume Builder CLI and HTTP API server",
	Long: `Resume Builder edits structured resumes, tailors them to job postings with an AI model,
imports PDF and DOCX resumes and exports localized A4 PDFs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values override environment variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadRuntime resolves the configuration and installs the logger.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	appConfig = cfg
	logger = logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	printer = observability.NewPrinter(cmd.OutOrStdout())
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
