package ingestion

import "fmt"

// UnsupportedInputError is returned when an uploaded file is not a PDF or
// DOCX document. It is raised before any extraction work is done.
type UnsupportedInputError struct {
	MIMEType string
	Reason   string
}

func (e *UnsupportedInputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported file type %q: %s", e.MIMEType, e.Reason)
	}
	return fmt.Sprintf("unsupported file type %q: only PDF and DOCX files are accepted", e.MIMEType)
}

// ExtractionError is returned when a supported file cannot be read.
type ExtractionError struct {
	MIMEType string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("text extraction failed (%s): %s: %v", e.MIMEType, e.Message, e.Cause)
	}
	return fmt.Sprintf("text extraction failed (%s): %s", e.MIMEType, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
