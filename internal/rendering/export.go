package rendering

import (
	"context"
	"strings"
	"unicode"

	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// Export is a rendered PDF and the file name it should be saved under.
type Export struct {
	FileName string
	PDF      []byte
}

// ExportPDF validates r, renders it with its template and prints it through
// renderer. A document that fails validation returns *schemas.ValidationError
// and is never rendered.
func ExportPDF(ctx context.Context, r types.Resume, loc locale.Locale, renderer PDFRenderer) (*Export, error) {
	validated, err := schemas.ValidateResumeValue(r)
	if err != nil {
		return nil, err
	}

	html, err := RenderHTML(*validated, loc)
	if err != nil {
		return nil, err
	}

	pdf, err := renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, err
	}
	return &Export{FileName: ExportFileName(validated.PersonalInfo), PDF: pdf}, nil
}

// ExportFileName builds "First_Last_Resume.pdf" from the personal info.
// Missing names are skipped; with neither name the result is "Resume.pdf".
func ExportFileName(p types.PersonalInfo) string {
	parts := make([]string, 0, 3)
	for _, n := range []string{p.FirstName, p.LastName} {
		if s := sanitizeFileNamePart(n); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, "Resume")
	return strings.Join(parts, "_") + ".pdf"
}

// sanitizeFileNamePart keeps letters, digits and '-', turning
// whitespace runs into a single '_'.
func sanitizeFileNamePart(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pendingSep := false

	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
		case unicode.IsSpace(r) || r == '_':
			pendingSep = true
		}
	}
	return sb.String()
}
