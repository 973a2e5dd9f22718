package engine_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/require"

	"github.com/skyeshanohan/rulesync/internal/engine"
	"github.com/skyeshanohan/rulesync/internal/inventory"
	"github.com/skyeshanohan/rulesync/internal/lifecycle"
	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
	"github.com/skyeshanohan/rulesync/internal/policy"
)

type fixture struct {
	mux         *http.ServeMux
	writes      atomic.Int32
	lastWritten []byte
}

func document(lifecycleValue string) string {
	return fmt.Sprintf(`apiVersion: backstage.io/v1alpha1
kind: Component
metadata:
  name: component
spec:
  lifecycle: %s
`, lifecycleValue)
}

func (f *fixture) serveContents(repo, doc string) {
	encoded := base64.StdEncoding.EncodeToString([]byte(doc))
	f.mux.HandleFunc("/repos/acme/"+repo+"/contents/catalog-info.yaml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"catalog-info.yaml","path":"catalog-info.yaml","content":%q}`, encoded)
	})
}

func newFixture(t *testing.T) (*fixture, *engine.Reconciler) {
	t.Helper()

	f := &fixture{mux: http.NewServeMux()}

	f.mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name":"r1","archived":false},
			{"name":"r2","archived":false},
			{"name":"r3","archived":true}
		]`)
	})

	f.serveContents("r1", document("production"))
	f.serveContents("r2", document("staging"))

	f.mux.HandleFunc("/orgs/acme/rulesets/8841", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("ETag", `"rev-7"`)
			fmt.Fprint(w, `{
				"id": 8841,
				"name": "production-governance",
				"enforcement": "active",
				"conditions": {"repository_name": {"include": ["r1", "r4"], "exclude": []}},
				"rules": [{"type": "pull_request"}],
				"bypass_actors": []
			}`)
		case http.MethodPut:
			f.writes.Add(1)
			body, _ := io.ReadAll(r.Body)
			f.lastWritten = body
			fmt.Fprint(w, `{}`)
		}
	})

	server := httptest.NewServer(f.mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	log, err := logger.New(logger.Options{Level: "error"})
	require.NoError(t, err)

	lister := inventory.NewGitHubLister(client, time.Second, log)
	fetcher := lifecycle.NewGitHubFetcher(client, "catalog-info.yaml", time.Second, 1)
	classifier := lifecycle.NewClassifier(fetcher, "backstage.io/v1", []string{"production"}, log)
	store := policy.NewGitHubStore(client, time.Second, log)

	return f, engine.New(lister, classifier, store, 10, 0, log)
}

func TestReconcileAgainstLiveStore(t *testing.T) {
	t.Parallel()

	f, reconciler := newFixture(t)

	rep, err := reconciler.Run(context.Background(), engine.Options{Scope: "acme", PolicyID: 8841})
	require.NoError(t, err)

	require.Equal(t, model.OutcomeApplied, rep.ApplyOutcome)
	require.Equal(t, 1, rep.ClassificationCounts.Governed)
	require.Equal(t, 1, rep.ClassificationCounts.NotGoverned)
	require.Equal(t, 1, rep.ClassificationCounts.SkippedArchived)
	require.Empty(t, rep.Diff.Added)
	require.Equal(t, []string{"r4"}, rep.Diff.Removed)

	require.Equal(t, int32(1), f.writes.Load())

	var written struct {
		Conditions struct {
			RepositoryName struct {
				Include []string `json:"include"`
			} `json:"repository_name"`
		} `json:"conditions"`
		Rules json.RawMessage `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(f.lastWritten, &written))
	require.Equal(t, []string{"r1"}, written.Conditions.RepositoryName.Include)
	require.JSONEq(t, `[{"type":"pull_request"}]`, string(written.Rules))
}

func TestReconcileDryRunAgainstLiveStore(t *testing.T) {
	t.Parallel()

	f, reconciler := newFixture(t)

	rep, err := reconciler.Run(context.Background(), engine.Options{Scope: "acme", PolicyID: 8841, DryRun: true})
	require.NoError(t, err)

	require.Equal(t, model.OutcomeDryRun, rep.ApplyOutcome)
	require.Equal(t, []string{"r4"}, rep.Diff.Removed)
	require.Zero(t, f.writes.Load())
}
