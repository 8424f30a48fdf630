package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text while keeping its line structure:
// line endings become LF, runs of spaces collapse, control characters are
// dropped, and no more than one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\f", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		if r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, line)

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Bullets keep their nesting depth.
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	if isBulletLine(trimmed) && indent > 0 {
		return strings.Repeat(" ", indent) + spaceRun.ReplaceAllString(trimmed, " ")
	}
	return spaceRun.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	for _, p := range []string{"- ", "* ", "• ", "· ", "– "} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// ReadDocument loads a local file for extraction and guesses its media type
// from the extension. ExtractText still sniffs the content.
func ReadDocument(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %w", err)
		}
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		mimeType = MIMEPDF
	case ".docx":
		mimeType = MIMEDOCX
	}
	return data, mimeType, nil
}
