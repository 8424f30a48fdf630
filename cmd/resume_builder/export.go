package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a resume to an A4 PDF",
	Long: `Renders a resume JSON file with its selected template and prints it to an A4 PDF
using headless Chrome. With --html the standalone HTML preview is written instead.`,
	RunE: runExport,
}

var (
	exportResume   string
	exportTemplate string
	exportLocale   string
	exportOutput   string
	exportHTML     bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportResume, "resume", "r", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template override: modern, classic, minimal or creative")
	exportCmd.Flags().StringVarP(&exportLocale, "locale", "l", "", "Label language: en or de")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output path (defaults to First_Last_Resume.pdf)")
	exportCmd.Flags().BoolVar(&exportHTML, "html", false, "Write the HTML preview instead of a PDF")

	if err := exportCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	loc, err := resolveLocale(exportLocale)
	if err != nil {
		return err
	}
	resume, err := readResume(exportResume)
	if err != nil {
		return err
	}
	if exportTemplate != "" {
		if !types.IsKnownTemplate(exportTemplate) {
			return fmt.Errorf("unknown template %q", exportTemplate)
		}
		resume.SelectedTemplate = exportTemplate
	}

	var (
		out  = exportOutput
		data []byte
	)
	if exportHTML {
		html, err := rendering.RenderHTML(*resume, loc)
		if err != nil {
			return err
		}
		data = []byte(html)
		if out == "" {
			out = htmlFileName(rendering.ExportFileName(resume.PersonalInfo))
		}
	} else {
		export, err := rendering.ExportPDF(context.Background(), *resume, loc, rendering.NewChromeRenderer(appConfig.ChromePath))
		if err != nil {
			return err
		}
		data = export.PDF
		if out == "" {
			out = export.FileName
		}
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if verbose {
		printer.PrintExport(out, len(data))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}

// htmlFileName swaps the .pdf extension of a PDF file name for .html.
func htmlFileName(pdfName string) string {
	return pdfName[:len(pdfName)-len(filepath.Ext(pdfName))] + ".html"
}
