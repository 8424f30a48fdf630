package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "step", Message: "out of range"}
	assert.Equal(t, "validation error: step - out of range", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrEntryNotFound(t *testing.T) {
	err := &ErrEntryNotFound{Collection: "skills", ID: "s9"}
	assert.Equal(t, "skills entry not found: s9", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrEntryExists(t *testing.T) {
	err := &ErrEntryExists{Collection: "skills", ID: "go"}
	assert.Equal(t, "skills entry already exists: go", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		code     string
	}{
		{
			name:     "schema violations",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "personalInfo.email", Message: "bad"}}},
			expected: http.StatusUnprocessableEntity,
			code:     "validation_failed",
		},
		{
			name:     "unsupported upload",
			err:      &ingestion.UnsupportedInputError{MIMEType: "text/plain"},
			expected: http.StatusUnsupportedMediaType,
			code:     "unsupported_media_type",
		},
		{
			name: "extraction failure inside collaborator error",
			err: &assistant.CollaboratorError{
				Op:    assistant.OpExtract,
				Cause: &ingestion.ExtractionError{MIMEType: ingestion.MIMEPDF, Message: "corrupt"},
			},
			expected: http.StatusUnprocessableEntity,
			code:     "extraction_failed",
		},
		{
			name:     "missing api key",
			err:      &assistant.MissingCredentialError{},
			expected: http.StatusBadRequest,
			code:     "missing_api_key",
		},
		{
			name:     "assistant input",
			err:      &assistant.InputError{Field: "job_description", Message: "required"},
			expected: http.StatusBadRequest,
			code:     "invalid_request",
		},
		{
			name:     "model failure",
			err:      &assistant.CollaboratorError{Op: assistant.OpOptimize, Message: "timeout"},
			expected: http.StatusBadGateway,
			code:     "collaborator_failed",
		},
		{
			name:     "unknown session",
			err:      fmt.Errorf("lookup: %w", ErrSessionNotFound),
			expected: http.StatusNotFound,
			code:     "session_not_found",
		},
		{
			name:     "busy session",
			err:      ErrSessionBusy,
			expected: http.StatusConflict,
			code:     "session_busy",
		},
		{
			name:     "pdf failure",
			err:      &rendering.RenderError{Message: "chrome exited"},
			expected: http.StatusBadGateway,
			code:     "render_failed",
		},
		{
			name:     "anything else",
			err:      errors.New("disk full"),
			expected: http.StatusInternalServerError,
			code:     "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.expected, status)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestNewErrorBody(t *testing.T) {
	t.Run("violations are listed", func(t *testing.T) {
		verr := &schemas.ValidationError{Errors: []schemas.FieldError{
			{Field: "personalInfo.email", Message: "Does not match format 'email'"},
			{Field: "skills[0].category", Message: "Invalid type"},
		}}
		status, body := newErrorBody(verr)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "document failed validation with 2 violation(s)", body.Message)
		assert.Len(t, body.Violations, 2)
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		status, body := newErrorBody(errors.New("pq: password authentication failed"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal server error", body.Message)
		assert.Empty(t, body.Violations)
	})
}
