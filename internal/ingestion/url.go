package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single document download.
	DefaultFetchTimeout = 30 * time.Second
	// maxFetchBytes caps downloaded documents.
	maxFetchBytes = 20 << 20
	userAgent     = "Mozilla/5.0 (compatible; ResumeScreener/1.0)"
)

// FetchError represents an error during URL fetching.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// FetchURL downloads a document (typically a job description page or PDF) and
// returns its cleaned text. A nil client uses one with DefaultFetchTimeout.
func FetchURL(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	return ExtractText(nameFor(parsed, resp.Header.Get("Content-Type")), body)
}

// nameFor derives a filename whose extension matches the served content type,
// so extension-based detection picks the right reader.
func nameFor(u *url.URL, contentType string) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		base = "document"
	}
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return strings.TrimSuffix(base, path.Ext(base)) + ".pdf"
	case strings.Contains(contentType, "text/html"):
		return strings.TrimSuffix(base, path.Ext(base)) + ".html"
	case strings.Contains(contentType, "text/plain"):
		return strings.TrimSuffix(base, path.Ext(base)) + ".txt"
	default:
		return base
	}
}
