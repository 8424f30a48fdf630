package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestJobPosting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<nav>Nav</nav>
<main>
<h1>Senior   Software Engineer</h1>
<h2>Requirements</h2>
<ul><li>Go experience</li><li>Distributed systems</li></ul>
</main>
<footer>Footer</footer>
</body></html>`))
	}))
	defer server.Close()

	text, meta, err := IngestJobPosting(context.Background(), server.URL, JobPostingOptions{})
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Software Engineer")
	assert.Contains(t, text, "- Go experience")
	assert.NotContains(t, text, "Nav")
	assert.NotContains(t, text, "Footer")
	require.NotNil(t, meta)
	assert.Equal(t, server.URL, meta.Source)
	assert.Equal(t, "unknown", meta.Platform)
}

func TestIngestJobPosting_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not-a-url", "example.com", "http://"} {
		_, _, err := IngestJobPosting(context.Background(), raw, JobPostingOptions{})
		assert.Error(t, err, raw)
	}
}
