// Package source loads HIS billing exports from spreadsheets, local files and Postgres.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"hisdash/pkg/utils"
)

// Transport errors.
var (
	ErrSheetNotFound   = errors.New("sheet not found, check the link")
	ErrSheetPermission = errors.New("sheet is not public, share it as \"anyone with the link can view\"")
	ErrFetchFailed     = errors.New("failed to fetch sheet")
	ErrBodyTooLarge    = errors.New("response body exceeds size limit")
)

// FetchError describes a failed fetch. Err is one of the transport sentinels.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Cause      error
}

func (e *FetchError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "fetch %s: %v", e.URL, e.Err)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	return b.String()
}

func (e *FetchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// Scraper fetches a remote payload in a single attempt.
type Scraper struct {
	client       *http.Client
	maxBodyBytes int64
}

// NewScraper creates a scraper with a 30 second timeout and a 50 MB body limit.
func NewScraper() *Scraper {
	return NewScraperWithConfig(30*time.Second, 50)
}

// NewScraperWithConfig creates a scraper with a custom timeout and body limit in megabytes.
func NewScraperWithConfig(timeout time.Duration, maxBodyMB int) *Scraper {
	return &Scraper{
		client:       &http.Client{Timeout: timeout},
		maxBodyBytes: int64(maxBodyMB) << 20,
	}
}

// Fetch downloads url and returns the raw body. Non-2xx responses are classified
// into FetchError values; there are no retries.
func (s *Scraper) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: url, Err: ErrFetchFailed, Cause: err}
	}

	req.Header = utils.BuildHeaders(nil)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: ErrFetchFailed, Cause: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	// A private sheet redirects to an HTML sign-in page instead of failing.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrSheetPermission}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrFetchFailed, Cause: err}
	}

	if int64(len(body)) > s.maxBodyBytes {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrFetchFailed, Cause: ErrBodyTooLarge}
	}

	return body, nil
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrSheetNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrSheetPermission
	default:
		return ErrFetchFailed
	}
}

// ReadLocalFile reads a payload from disk.
func ReadLocalFile(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return content, nil
}
