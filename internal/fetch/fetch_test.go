package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "/relative"} {
		_, err := URL(context.Background(), raw, nil)
		require.Error(t, err, raw)

		var fetchErr *Error
		assert.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>Navigation</nav>
		<div class="job-description">
			<h2>Backend Engineer</h2>
			<p>Build   services in Go.</p>
			<ul><li>Postgres</li><li>Kubernetes</li></ul>
			<form>Apply now</form>
		</div>
		<footer>Footer</footer>
	</body></html>`

	text, err := ExtractMainText(html, ContentSelectors(PlatformUnknown), NoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)

	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Build services in Go.")
	assert.Contains(t, text, "- Postgres")
	assert.Contains(t, text, "- Kubernetes")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Apply now")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><p>Only body</p></body></html>`, []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Only body", text)
}

func TestJobPosting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><h1>Data Engineer</h1><p>Spark and SQL.</p></main></body></html>`))
	}))
	defer server.Close()

	text, err := JobPosting(context.Background(), server.URL, PostingOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer\nSpark and SQL.", text)
}

func TestJobPosting_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>app()</script></body></html>`))
	}))
	defer server.Close()

	_, err := JobPosting(context.Background(), server.URL, PostingOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text found")
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, NeedsBrowser("Loading..."))
	assert.False(t, NeedsBrowser(strings.Repeat("word ", MinContentLength)))
}
