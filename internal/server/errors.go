// Package server provides the HTTP API for editing resumes in sessions.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionBusy is returned while another AI request runs for the session.
var ErrSessionBusy = errors.New("another AI request is in progress for this session")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrEntryNotFound indicates an update or delete for an id that is not in
// the collection.
type ErrEntryNotFound struct {
	Collection string
	ID         string
}

func (e *ErrEntryNotFound) Error() string {
	return fmt.Sprintf("%s entry not found: %s", e.Collection, e.ID)
}

// ErrEntryExists indicates an add whose id is already used in the collection.
type ErrEntryExists struct {
	Collection string
	ID         string
}

func (e *ErrEntryExists) Error() string {
	return fmt.Sprintf("%s entry already exists: %s", e.Collection, e.ID)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error      string                `json:"error"`
	Message    string                `json:"message"`
	Violations []schemas.FieldError `json:"violations,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// classify maps an error to a status code and a stable error code.
func classify(err error) (int, string) {
	var (
		verr        *schemas.ValidationError
		unsupported *ingestion.UnsupportedInputError
		extraction  *ingestion.ExtractionError
		missingKey  *assistant.MissingCredentialError
		input       *assistant.InputError
		collab      *assistant.CollaboratorError
		reqErr      *ErrValidation
		notFound    *ErrEntryNotFound
		exists      *ErrEntryExists
		renderErr   *rendering.RenderError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity, "extraction_failed"
	case errors.As(err, &missingKey):
		return http.StatusBadRequest, "missing_api_key"
	case errors.As(err, &input), errors.As(err, &reqErr):
		return http.StatusBadRequest, "invalid_request"
	case errors.As(err, &collab):
		return http.StatusBadGateway, "collaborator_failed"
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.As(err, &notFound):
		return http.StatusNotFound, "entry_not_found"
	case errors.As(err, &exists):
		return http.StatusConflict, "entry_exists"
	case errors.Is(err, ErrSessionBusy):
		return http.StatusConflict, "session_busy"
	case errors.As(err, &renderErr):
		return http.StatusBadGateway, "render_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func newErrorBody(err error) (int, errorBody) {
	status, code := classify(err)
	body := errorBody{Error: code, Message: err.Error()}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		body.Message = fmt.Sprintf("document failed validation with %d violation(s)", len(verr.Errors))
		body.Violations = verr.Errors
	}
	if status == http.StatusInternalServerError {
		body.Message = "internal server error"
	}
	return status, body
}
