// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to maxItemsToShow items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", heading, len(items))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// PrintResume outputs a human-readable summary of a resume document.
func (p *Printer) PrintResume(title string, r *types.Resume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	name := r.PersonalInfo.FullName()
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(&sb, "Name:     %s\n", name)
	if r.PersonalInfo.Email != "" {
		fmt.Fprintf(&sb, "Email:    %s\n", r.PersonalInfo.Email)
	}
	fmt.Fprintf(&sb, "Template: %s\n", r.SelectedTemplate)
	sb.WriteString("\n")

	work := make([]string, 0, len(r.WorkExperience))
	for _, w := range r.WorkExperience {
		entry := w.Position
		if w.Company != "" {
			entry += " @ " + w.Company
		}
		work = append(work, entry)
	}
	writeList(&sb, "Experience", work)

	education := make([]string, 0, len(r.Education))
	for _, e := range r.Education {
		education = append(education, strings.TrimSpace(e.Degree+" "+e.Institution))
	}
	writeList(&sb, "Education", education)

	skills := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		entry := s.Name
		if s.Proficiency != "" {
			entry += fmt.Sprintf(" (%s)", s.Proficiency)
		}
		skills = append(skills, entry)
	}
	writeList(&sb, "Skills", skills)

	fmt.Fprintf(&sb, "Languages: %d  Projects: %d  Certifications: %d\n",
		len(r.Languages), len(r.Projects), len(r.Certifications))

	p.printBox(title, sb.String())
}

// PrintValidationError outputs every schema violation, or a success box
// when err is nil.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationError(err *schemas.ValidationError) {
	if err == nil || len(err.Errors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d violations:\n\n", len(err.Errors))
	for i, fe := range err.Errors {
		fmt.Fprintf(&sb, "⚠ %s\n", fe.Field)
		fmt.Fprintf(&sb, "  %s\n", fe.Message)
		if i < len(err.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCHEMA VIOLATIONS", sb.String())
}

// PrintIngestion outputs what was extracted from a document or posting.
func (p *Printer) PrintIngestion(meta *ingestion.Metadata, text string) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:   %s\n", meta.Source)
	if meta.MIMEType != "" {
		fmt.Fprintf(&sb, "Type:     %s\n", meta.MIMEType)
	}
	if meta.Platform != "" {
		fmt.Fprintf(&sb, "Platform: %s\n", meta.Platform)
	}
	fmt.Fprintf(&sb, "Chars:    %d\n", meta.Chars)
	fmt.Fprintf(&sb, "SHA256:   %s\n", meta.Hash[:16])

	if preview := firstLines(text, 3); preview != "" {
		sb.WriteString("\n")
		sb.WriteString(preview)
	}

	p.printBox("EXTRACTED TEXT", sb.String())
}

// PrintExport outputs the result of a PDF export.
func (p *Printer) PrintExport(path string, size int) {
	p.printBox("PDF EXPORT", fmt.Sprintf("File:  %s\nSize:  %.1f KB\n", path, float64(size)/1024))
}

func firstLines(text string, n int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
			if len(out) == n {
				break
			}
		}
	}
	return strings.Join(out, "\n")
}
