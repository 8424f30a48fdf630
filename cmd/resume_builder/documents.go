package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// readResume loads and validates a resume JSON file.
func readResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return schemas.ValidateResume(data)
}

// writeResume writes r as indented JSON to path, or to w when path is empty.
func writeResume(w io.Writer, path string, r *types.Resume) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// resolveLocale picks the flag value, falling back to the configured default.
func resolveLocale(flag string) (locale.Locale, error) {
	if flag == "" {
		return locale.Parse(appConfig.DefaultLocale), nil
	}
	if !locale.IsSupported(flag) {
		return "", fmt.Errorf("unsupported locale %q: use en or de", flag)
	}
	return locale.Parse(flag), nil
}

func newAssistant() *assistant.Service {
	return assistant.New(llm.NewFactory(llm.DefaultConfig(), logger), appConfig.GeminiAPIKey, assistant.WithLogger(logger))
}
