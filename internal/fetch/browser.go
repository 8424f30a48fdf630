package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain
// HTTP fetch before falling back to a headless browser.
const MinContentLength = 300

// NeedsBrowser reports whether extracted text is too short to be a rendered
// posting, which usually means the page is built client-side.
func NeedsBrowser(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

// Render loads urlStr in headless Chrome and returns the rendered HTML.
// execPath selects the browser binary; empty uses chromedp's lookup.
func Render(ctx context.Context, urlStr, execPath string, timeout time.Duration) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(DefaultUserAgent),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	return html, nil
}

// PostingOptions configures JobPosting.
type PostingOptions struct {
	HTTP       *Options
	UseBrowser bool
	ChromePath string
}

// JobPosting fetches urlStr and returns the posting text. With UseBrowser
// set, short results are retried through a headless browser; a failed
// browser attempt keeps the HTTP text.
func JobPosting(ctx context.Context, urlStr string, opts PostingOptions) (string, error) {
	platform := DetectPlatform(urlStr)

	res, err := URL(ctx, urlStr, opts.HTTP)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(res.HTML, ContentSelectors(platform), NoiseSelectors(platform)...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if opts.UseBrowser && NeedsBrowser(text) {
		if html, rerr := Render(ctx, urlStr, opts.ChromePath, DefaultTimeout); rerr == nil {
			if rendered, xerr := ExtractMainText(html, ContentSelectors(platform), NoiseSelectors(platform)...); xerr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: urlStr, Message: "no text found on page"}
	}
	return text, nil
}
