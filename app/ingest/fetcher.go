package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError reports why an article page could not be retrieved. It is an
// entry-level failure: the caller degrades to empty HTML instead of
// abandoning the entry.
type FetchError struct {
	URL        string
	StatusCode int // zero for transport/timeout failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves article HTML with a bounded timeout and a declared user
// agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewFetcher(client *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{client: client, userAgent: userAgent, timeout: timeout}
}

// Fetch retrieves the HTML of a single article URL. Failures are reported as
// a *FetchError carrying the HTTP status or the underlying cause.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	return string(data), nil
}
