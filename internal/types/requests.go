package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// OptimizeRequest asks the AI collaborator to tailor the session's resume to
// a job. The posting is given inline or as a URL to import it from.
type OptimizeRequest struct {
	JobDescription string `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,http_url"`
	Locale         string `json:"locale,omitempty" validate:"omitempty,oneof=en de"`
	APIKey         string `json:"api_key,omitempty"`
}

// UploadRequest holds the form fields sent alongside an uploaded document.
type UploadRequest struct {
	Locale string `validate:"omitempty,oneof=en de"`
	APIKey string
}

// SetTemplateRequest selects the rendering template.
type SetTemplateRequest struct {
	Template string `json:"template" validate:"required,max=64"`
}

// SetStepRequest moves the editor to another section.
type SetStepRequest struct {
	Step *int `json:"step" validate:"required,min=0,max=5"`
}

// EntryResponse is returned when an entry is added to a collection.
type EntryResponse struct {
	ID    string      `json:"id"`
	State interface{} `json:"state"`
}

// CreateSessionResponse is returned when a new editing session is opened.
type CreateSessionResponse struct {
	SessionID string      `json:"session_id"`
	Token     string      `json:"token"`
	State     interface{} `json:"state"`
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UploadRequest using the validator.
func (r *UploadRequest) Validate() error {
	return validate.Struct(r)
}

// ValidateEntry checks the enum fields of a collection entry. Completeness
// is left to the document schema at load and export time.
func ValidateEntry(entry any) error {
	return validate.Struct(entry)
}

// Validate validates the SetTemplateRequest using the validator.
func (r *SetTemplateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetStepRequest using the validator.
func (r *SetStepRequest) Validate() error {
	return validate.Struct(r)
}
