package lifecycle

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/require"
)

func contentsHandler(t *testing.T, body string) http.HandlerFunc {
	t.Helper()

	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"catalog-info.yaml","path":"catalog-info.yaml","content":%q}`, encoded)
	}
}

func newTestFetcher(t *testing.T, handler http.Handler, maxRetries int) *GitHubFetcher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewGitHubFetcher(client, "catalog-info.yaml", time.Second, maxRetries)
}

func TestFetchReturnsDecodedDocument(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/svc-a/contents/catalog-info.yaml", contentsHandler(t, productionDoc))

	fetcher := newTestFetcher(t, mux, 0)

	body, err := fetcher.Fetch(context.Background(), "acme", "svc-a")
	require.NoError(t, err)
	require.Contains(t, string(body), "lifecycle: production")
}

func TestFetchMapsMissingDocumentToErrNotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/svc-a/contents/catalog-info.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	fetcher := newTestFetcher(t, mux, 3)

	_, err := fetcher.Fetch(context.Background(), "acme", "svc-a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/svc-a/contents/catalog-info.yaml", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"message":"upstream unavailable"}`, http.StatusBadGateway)
			return
		}
		contentsHandler(t, productionDoc)(w, r)
	})

	fetcher := newTestFetcher(t, mux, 5)

	body, err := fetcher.Fetch(context.Background(), "acme", "svc-a")
	require.NoError(t, err)
	require.Contains(t, string(body), "production")
	require.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestFetchGivesUpAfterBoundedRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/svc-a/contents/catalog-info.yaml", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"upstream unavailable"}`, http.StatusBadGateway)
	})

	fetcher := newTestFetcher(t, mux, 2)

	_, err := fetcher.Fetch(context.Background(), "acme", "svc-a")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Equal(t, int32(3), calls.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/svc-a/contents/catalog-info.yaml", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
	})

	fetcher := newTestFetcher(t, mux, 5)

	_, err := fetcher.Fetch(context.Background(), "acme", "svc-a")
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}
