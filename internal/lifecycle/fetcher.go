// Package lifecycle fetches and classifies per-resource lifecycle documents.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v73/github"
)

// ErrNotFound reports that a resource has no lifecycle document.
var ErrNotFound = errors.New("lifecycle document not found")

// Fetcher retrieves the raw lifecycle document for one resource.
type Fetcher interface {
	Fetch(ctx context.Context, scope, resourceID string) ([]byte, error)
}

// GitHubFetcher reads the document from a repository's default branch via
// the contents API. Transient failures are retried with bounded exponential
// backoff before the error is handed back to the classifier.
type GitHubFetcher struct {
	client     *github.Client
	path       string
	timeout    time.Duration
	maxRetries uint64
}

// NewGitHubFetcher builds a fetcher for the given in-repository path.
func NewGitHubFetcher(client *github.Client, path string, timeout time.Duration, maxRetries int) *GitHubFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &GitHubFetcher{client: client, path: path, timeout: timeout, maxRetries: uint64(maxRetries)}
}

// Fetch returns the document body, ErrNotFound when the path does not exist,
// or the terminal error once retries are exhausted.
func (f *GitHubFetcher) Fetch(ctx context.Context, scope, resourceID string) ([]byte, error) {
	var body []byte

	operation := func() error {
		data, err := f.fetchOnce(ctx, scope, resourceID)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		body = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), f.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return body, nil
}

func (f *GitHubFetcher) fetchOnce(ctx context.Context, scope, resourceID string) ([]byte, error) {
	callCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	file, _, resp, err := f.client.Repositories.GetContents(callCtx, scope, resourceID, f.path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if file == nil {
		// The path resolved to a directory; no document to classify.
		return nil, ErrNotFound
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s content: %w", f.path, err)
	}

	return []byte(content), nil
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	return b
}

func isTransient(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode >= http.StatusInternalServerError
	}
	// Remaining failures are network-level (timeouts, resets); retry them.
	return true
}
