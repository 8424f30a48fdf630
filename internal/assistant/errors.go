package assistant

import "fmt"

// InputError reports a request the assistant refuses before doing any work.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// MissingCredentialError is returned when no API key is configured and none
// was supplied with the request.
type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "no API key available: configure GEMINI_API_KEY or supply an api key with the request"
}

// CollaboratorError wraps a failure of the AI service or of text extraction,
// including replies that are not JSON.
type CollaboratorError struct {
	Op      string // one of the Op constants
	Message string
	Cause   error
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}
