package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Tailor a resume to a job posting",
	Long: `Rewrites a resume for a job posting with the AI model. The posting is read from a
text file (--job) or imported from a job board URL (--job-url).`,
	RunE: runOptimize,
}

var (
	optimizeResume     string
	optimizeJob        string
	optimizeJobURL     string
	optimizeOutput     string
	optimizeLocale     string
	optimizeAPIKey     string
	optimizeUseBrowser bool
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeResume, "resume", "r", "", "Path to resume JSON file (required)")
	optimizeCmd.Flags().StringVarP(&optimizeJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	optimizeCmd.Flags().StringVar(&optimizeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "out", "o", "", "Path to output resume JSON (defaults to stdout)")
	optimizeCmd.Flags().StringVarP(&optimizeLocale, "locale", "l", "", "Output language: en or de")
	optimizeCmd.Flags().StringVar(&optimizeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	optimizeCmd.Flags().BoolVar(&optimizeUseBrowser, "use-browser", true, "Fall back to a headless browser for script-rendered postings")

	if err := optimizeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	optimizeCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	optimizeCmd.MarkFlagsOneRequired("job", "job-url")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	loc, err := resolveLocale(optimizeLocale)
	if err != nil {
		return err
	}
	resume, err := readResume(optimizeResume)
	if err != nil {
		return err
	}

	ctx := context.Background()
	job, err := loadJobPosting(ctx)
	if err != nil {
		return err
	}

	initial := store.InitialState()
	initial.Resume = *resume
	st := store.New(store.WithState(initial), store.WithLogger(logger))

	optimized, err := newAssistant().Optimize(ctx, st, assistant.OptimizeInput{
		JobDescription: job,
		Locale:         loc,
		APIKey:         optimizeAPIKey,
	})
	if err != nil {
		return err
	}

	if verbose {
		printer.PrintResume("OPTIMIZED RESUME", optimized)
	}
	return writeResume(cmd.OutOrStdout(), optimizeOutput, optimized)
}

func loadJobPosting(ctx context.Context) (string, error) {
	if optimizeJobURL != "" {
		text, meta, err := ingestion.IngestJobPosting(ctx, optimizeJobURL, ingestion.JobPostingOptions{
			UseBrowser: optimizeUseBrowser,
			ChromePath: appConfig.ChromePath,
		})
		if err != nil {
			return "", err
		}
		logger.Info("imported job posting", meta.LogAttrs()...)
		if verbose {
			printer.PrintIngestion(meta, text)
		}
		return text, nil
	}

	content, err := os.ReadFile(optimizeJob)
	if err != nil {
		return "", fmt.Errorf("failed to read job posting file: %w", err)
	}
	return ingestion.CleanText(string(content)), nil
}
