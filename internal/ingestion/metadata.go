package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes a piece of ingested text. It is logged with uploads and
// job posting imports so repeated inputs can be correlated.
type Metadata struct {
	Source    string `json:"source,omitempty"` // file name or URL
	MIMEType  string `json:"mime_type,omitempty"`
	Platform  string `json:"platform,omitempty"` // job board, for URLs
	Timestamp string `json:"timestamp"`          // RFC3339
	Hash      string `json:"hash"`               // SHA256 of the cleaned text
	Chars     int    `json:"chars"`
}

// NewMetadata describes text taken from source.
func NewMetadata(text, source, mimeType string) *Metadata {
	sum := sha256.Sum256([]byte(text))
	return &Metadata{
		Source:    source,
		MIMEType:  mimeType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      hex.EncodeToString(sum[:]),
		Chars:     len([]rune(text)),
	}
}

// LogAttrs returns the fields worth logging as slog key/value pairs.
func (m *Metadata) LogAttrs() []any {
	attrs := []any{"source", m.Source, "hash", m.Hash[:12], "chars", m.Chars}
	if m.MIMEType != "" {
		attrs = append(attrs, "mime_type", m.MIMEType)
	}
	if m.Platform != "" {
		attrs = append(attrs, "platform", m.Platform)
	}
	return attrs
}
