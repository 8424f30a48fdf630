package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var (
	validateInput  string
	validateSchema string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON file against the resume schema",
	Long: `Validates a resume document and lists every violation with its field path.
With --schema the file is checked against that JSON Schema instead of the built-in resume schema.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to resume JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema file to validate against instead")
	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateSchema != "" {
		return runValidateAgainst(cmd, validateSchema)
	}

	resume, err := readResume(validateInput)
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		printer.PrintValidationError(verr)
		return fmt.Errorf("validation failed with %d violation(s)", len(verr.Errors))
	}
	if err != nil {
		return err
	}

	if verbose {
		printer.PrintResume("RESUME", resume)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}

func runValidateAgainst(cmd *cobra.Command, schemaPath string) error {
	err := schemas.ValidateJSON(schemaPath, validateInput)
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		printer.PrintValidationError(verr)
		return fmt.Errorf("validation failed with %d violation(s)", len(verr.Errors))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
