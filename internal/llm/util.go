package llm

import "strings"

// CleanJSONBlock strips markdown fences and conversational text around a
// JSON reply. Models add both even when asked for bare JSON.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag on the fence line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var found string
	if text[start] == '{' {
		found = extractJSONObject(text[start:])
	} else {
		found = extractJSONArray(text[start:])
	}
	if found == "" {
		return text
	}
	return found
}

func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

// extractBalanced returns the prefix of s that closes the bracket s starts
// with, skipping brackets inside JSON strings. It returns "" if s does not
// start with openCh or never closes it.
func extractBalanced(s string, openCh, closeCh byte) string {
	if len(s) == 0 || s[0] != openCh {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == openCh:
			depth++
		case ch == closeCh:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
