package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/fetch"
)

// JobPostingOptions configures IngestJobPosting.
type JobPostingOptions struct {
	UseBrowser bool
	ChromePath string
	HTTP       *fetch.Options
}

// IngestJobPosting fetches a job posting and returns its cleaned text.
func IngestJobPosting(ctx context.Context, urlStr string, opts JobPostingOptions) (string, *Metadata, error) {
	text, err := fetch.JobPosting(ctx, urlStr, fetch.PostingOptions{
		HTTP:       opts.HTTP,
		UseBrowser: opts.UseBrowser,
		ChromePath: opts.ChromePath,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to import job posting: %w", err)
	}

	cleaned := CleanText(text)
	meta := NewMetadata(cleaned, urlStr, "text/html")
	meta.Platform = string(fetch.DetectPlatform(urlStr))
	return cleaned, meta, nil
}
