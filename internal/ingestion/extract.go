// Package ingestion turns uploaded documents and job posting URLs into
// cleaned plain text.
package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Accepted upload types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxUploadBytes is the largest document accepted for extraction.
const MaxUploadBytes = 10 << 20

// declared types that say nothing about the payload; the content decides.
var genericTypes = map[string]bool{
	"":                             true,
	"application/octet-stream":     true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// NormalizeMIME lowercases a media type and strips its parameters.
func NormalizeMIME(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
}

// ResolveType decides which extractor handles data. A declared PDF or DOCX
// type must agree with the content; a generic or missing type defers to
// content sniffing. Everything else is an *UnsupportedInputError.
func ResolveType(data []byte, declared, fileName string) (string, error) {
	d := NormalizeMIME(declared)

	switch {
	case d == MIMEPDF || d == MIMEDOCX:
		if len(data) == 0 {
			return d, nil
		}
		if sniffed := sniff(data, fileName); sniffed != d {
			return "", &UnsupportedInputError{MIMEType: d, Reason: "file content does not match the declared type"}
		}
		return d, nil
	case genericTypes[d]:
		if sniffed := sniff(data, fileName); sniffed == MIMEPDF || sniffed == MIMEDOCX {
			return sniffed, nil
		}
		if d == "" {
			d = mimetype.Detect(data).String()
		}
		return "", &UnsupportedInputError{MIMEType: d}
	default:
		return "", &UnsupportedInputError{MIMEType: d}
	}
}

func sniff(data []byte, fileName string) string {
	m := mimetype.Detect(data)
	switch {
	case m.Is(MIMEPDF):
		return MIMEPDF
	case m.Is(MIMEDOCX):
		return MIMEDOCX
	}
	// Some writers order zip entries so that sniffing stops before word/.
	if zipHasEntry(data, "word/document.xml") {
		return MIMEDOCX
	}
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") && bytes.Contains(data[:min(len(data), 1024)], []byte("%PDF-")) {
		return MIMEPDF
	}
	return m.String()
}

// ExtractText returns the cleaned plain text of an uploaded PDF or DOCX file.
func ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := ResolveType(data, mimeType, fileName)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &ExtractionError{MIMEType: resolved, Message: "file is empty"}
	}
	if len(data) > MaxUploadBytes {
		return "", &ExtractionError{MIMEType: resolved, Message: "file exceeds the 10 MiB limit"}
	}

	var raw string
	switch resolved {
	case MIMEPDF:
		raw, err = extractPDF(data)
	case MIMEDOCX:
		raw, err = extractDOCX(data)
	}
	if err != nil {
		return "", &ExtractionError{MIMEType: resolved, Message: "could not read document", Cause: err}
	}

	text := CleanText(raw)
	if text == "" {
		return "", &ExtractionError{MIMEType: resolved, Message: "no text found in document"}
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("malformed PDF")
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	return docxText(rc)
}

// docxText walks WordprocessingML and keeps run text, turning paragraphs
// and breaks into newlines and tabs into tab characters.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteByte('\t')
			case "br", "cr":
				buf.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return buf.String(), nil
}

func zipHasEntry(data []byte, name string) bool {
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return true
		}
	}
	return false
}
