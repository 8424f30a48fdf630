package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", FormatJSON)

	ctx := WithRequestID(context.Background(), "req-1")
	l.InfoContext(ctx, "hello", "session", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec[RequestIDAttr])
	assert.Equal(t, "abc", rec["session"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", FormatText)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept", "count", 3)
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "count")
}

func TestColoredHandler_WithAttrsAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewColoredHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).With("component", "store")

	l.DebugContext(WithRequestID(context.Background(), "r-42"), "dispatched")

	out := buf.String()
	assert.Contains(t, out, "[r-42]")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, `"store"`)
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
