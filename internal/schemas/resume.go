package schemas

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
	rootschemas "github.com/jonathan/resume-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Custom formats used by the resume schema. Both accept the empty string.
const (
	formatOptionalEmail = "optional-email"
	formatOptionalURI   = "optional-uri"
)

func init() {
	gojsonschema.FormatCheckers.Add(formatOptionalEmail, optionalFormat{inner: emailChecker()})
	gojsonschema.FormatCheckers.Add(formatOptionalURI, optionalFormat{inner: webURLChecker{}})
}

// optionalFormat accepts "" and otherwise defers to inner.
type optionalFormat struct {
	inner gojsonschema.FormatChecker
}

func (f optionalFormat) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	if s == "" {
		return true
	}
	return f.inner.IsFormat(s)
}

// webURLChecker requires an absolute URL with a scheme and a host.
type webURLChecker struct{}

func (webURLChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

var resumeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(rootschemas.Resume))
})

// ResumeSchemaJSON returns the resume JSON Schema text, e.g. for embedding into prompts.
func ResumeSchemaJSON() string {
	return rootschemas.Resume
}

// ValidateResume checks raw JSON against the resume schema and decodes it.
// On failure the returned *ValidationError lists every violation, not just the first.
func ValidateResume(data []byte) (*types.Resume, error) {
	schema, err := resumeSchema()
	if err != nil {
		return nil, &SchemaLoadError{Path: "resume.schema.json", Message: "failed to compile schema", Cause: err}
	}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "invalid JSON: " + err.Error()}}}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(probe))
	if err != nil {
		return nil, &SchemaLoadError{Path: "resume.schema.json", Message: "failed to validate document", Cause: err}
	}
	if verr := toValidationError(result); verr != nil {
		return nil, verr
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to decode validated resume: %w", err)
	}
	return &resume, nil
}

// ValidateResumeValue validates any JSON-serializable value, such as a
// types.Resume or a decoded map.
func ValidateResumeValue(v any) (*types.Resume, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "not serializable: " + err.Error()}}}
	}
	return ValidateResume(data)
}

func emailChecker() gojsonschema.FormatChecker {
	return gojsonschema.EmailFormatChecker{}
}
