// Package download provides the network fetch collaborator. The core hands
// it a URL and a destination path and never interprets the bytes itself.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenk/backoff"

	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/fsutil"
)

// Fetcher retrieves a remote resource into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, destPath string) error
}

// HTTPFetcher is an HTTP implementation of Fetcher with bounded exponential
// retry for transient failures. Client errors (4xx) are terminal.
type HTTPFetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries uint64
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = "mix/1.0"
	}
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxRetries: 3,
	}
}

// Fetch downloads rawURL into destPath. The body is streamed to a temporary
// file next to the destination and renamed into place on success, so a
// failed download never leaves a truncated file behind.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, destPath string) error {
	if err := fsutil.EnsureFileDir(destPath); err != nil {
		return errors.Wrap(err, "failed to create download directory")
	}

	operation := func() error {
		return f.fetchOnce(ctx, rawURL, destPath)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return errors.Wrapf(errors.ErrRequest, "%s: %v", rawURL, err)
	}
	return nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".mix-fetch-*.tmp")
	if err != nil {
		return backoff.Permanent(err)
	}
	tmpPath := tmpFile.Name()
	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return backoff.Permanent(err)
	}
	return nil
}
