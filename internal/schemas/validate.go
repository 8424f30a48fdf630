// Package schemas provides JSON Schema validation for resume documents and other
// structured artifacts.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error carrying every violation found
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
// Field is path-qualified, e.g. "workExperience[2].startDate".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (fe FieldError) String() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Messages returns the violations as "path: message" strings.
func (ve *ValidationError) Messages() []string {
	out := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		out = append(out, fe.String())
	}
	return out
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbsPath))
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(jsonAbsPath))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return toValidationError(result)
}

// toValidationError converts a gojsonschema result into a *ValidationError,
// or nil when the document is valid. Errors are sorted by field path.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, fieldErrorFrom(desc))
	}
	sort.SliceStable(validationErr.Errors, func(i, j int) bool {
		return validationErr.Errors[i].Field < validationErr.Errors[j].Field
	})
	return validationErr
}

func fieldErrorFrom(desc gojsonschema.ResultError) FieldError {
	path := formatFieldPath(desc.Field())

	switch desc.Type() {
	case "required":
		// Required violations are reported against the parent object.
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" && path != prop && !strings.HasSuffix(path, "."+prop) {
			path = joinPath(path, prop)
		}
		return FieldError{Field: orRoot(path), Message: "required"}
	case "format":
		return FieldError{Field: orRoot(path), Message: formatMessage(desc.Details()["format"])}
	default:
		return FieldError{Field: orRoot(path), Message: describe(desc)}
	}
}

// describe returns the violation text without gojsonschema's leading dotted
// field, which FieldError already carries in bracket form.
func describe(desc gojsonschema.ResultError) string {
	msg := desc.Description()
	for _, prefix := range []string{desc.Field() + " ", desc.Context().String() + " "} {
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// formatFieldPath rewrites gojsonschema's dotted context ("workExperience.2.startDate")
// into bracket form ("workExperience[2].startDate").
func formatFieldPath(field string) string {
	field = strings.TrimPrefix(field, "(root)")
	field = strings.TrimPrefix(field, ".")
	if field == "" {
		return ""
	}

	var sb strings.Builder
	for _, seg := range strings.Split(field, ".") {
		if isIndex(seg) {
			sb.WriteString("[" + seg + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatMessage(format any) string {
	switch format {
	case formatOptionalEmail:
		return "must be empty or a valid email address"
	case formatOptionalURI:
		return "must be empty or a valid URL"
	default:
		return fmt.Sprintf("does not match format %v", format)
	}
}
