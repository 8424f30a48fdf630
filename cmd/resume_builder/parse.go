package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Structure a PDF or DOCX resume into resume JSON",
	Long: `Extracts the text of a PDF or DOCX resume, has the AI model structure it and
writes the validated resume JSON. Plain text can be passed with --text instead.`,
	RunE: runParse,
}

var (
	parseInput  string
	parseText   string
	parseOutput string
	parseLocale string
	parseAPIKey string
)

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "in", "i", "", "Path to a PDF or DOCX resume (mutually exclusive with --text)")
	parseCmd.Flags().StringVar(&parseText, "text", "", "Path to a plain text resume (mutually exclusive with --in)")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output resume JSON (defaults to stdout)")
	parseCmd.Flags().StringVarP(&parseLocale, "locale", "l", "", "Output language: en or de")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	parseCmd.MarkFlagsMutuallyExclusive("in", "text")
	parseCmd.MarkFlagsOneRequired("in", "text")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	loc, err := resolveLocale(parseLocale)
	if err != nil {
		return err
	}
	ctx := context.Background()
	st := store.New(store.WithLogger(logger))
	svc := newAssistant()

	var resume *types.Resume
	if parseText != "" {
		content, err := os.ReadFile(parseText)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		text := ingestion.CleanText(string(content))
		if verbose {
			printer.PrintIngestion(ingestion.NewMetadata(text, parseText, "text/plain"), text)
		}
		resume, err = svc.ParseText(ctx, st, text, loc, parseAPIKey)
		if err != nil {
			return err
		}
	} else {
		data, mimeType, err := ingestion.ReadDocument(parseInput)
		if err != nil {
			return err
		}
		resume, err = svc.ParseDocument(ctx, st, assistant.ParseInput{
			Data:     data,
			MimeType: mimeType,
			FileName: filepath.Base(parseInput),
			Locale:   loc,
			APIKey:   parseAPIKey,
		})
		if err != nil {
			return err
		}
	}

	if verbose {
		printer.PrintResume("PARSED RESUME", resume)
	}
	return writeResume(cmd.OutOrStdout(), parseOutput, resume)
}
