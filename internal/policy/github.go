package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v73/github"

	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
	rulesyncerrors "github.com/skyeshanohan/rulesync/pkg/errors"
)

// GitHubStore manages an organization ruleset as the policy object. The
// ruleset's repository_name.include condition is the membership set.
type GitHubStore struct {
	client  *github.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewGitHubStore builds a store over an authenticated client. timeout bounds
// the read and the write individually.
func NewGitHubStore(client *github.Client, timeout time.Duration, log *logger.Logger) *GitHubStore {
	return &GitHubStore{client: client, timeout: timeout, log: log}
}

// rulesetView extracts the fields the engine models; everything else stays
// in the raw document.
type rulesetView struct {
	Name        string `json:"name"`
	Enforcement string `json:"enforcement"`
	Conditions  struct {
		RepositoryName struct {
			Include []string `json:"include"`
			Exclude []string `json:"exclude"`
		} `json:"repository_name"`
	} `json:"conditions"`
}

// Get reads the ruleset and captures its ETag as the revision token.
func (s *GitHubStore) Get(ctx context.Context, scope string, policyID int64) (*model.PolicyState, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	u := fmt.Sprintf("orgs/%s/rulesets/%d", scope, policyID)
	req, err := s.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, rulesyncerrors.NewPolicyError(strconv.FormatInt(policyID, 10), "build ruleset request", err)
	}

	var raw json.RawMessage
	resp, err := s.client.Do(callCtx, req, &raw)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("ruleset %d in %s: %w", policyID, scope, ErrNotFound)
		}
		return nil, rulesyncerrors.NewPolicyError(strconv.FormatInt(policyID, 10), "read ruleset", err)
	}

	var view rulesetView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, rulesyncerrors.NewPolicyError(strconv.FormatInt(policyID, 10), "decode ruleset", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, rulesyncerrors.NewPolicyError(strconv.FormatInt(policyID, 10), "decode ruleset fields", err)
	}

	state := &model.PolicyState{
		PolicyID:     strconv.FormatInt(policyID, 10),
		Name:         view.Name,
		Enforcement:  view.Enforcement,
		Membership:   view.Conditions.RepositoryName.Include,
		Exclude:      view.Conditions.RepositoryName.Exclude,
		Rules:        fields["rules"],
		BypassActors: fields["bypass_actors"],
		Revision:     resp.Header.Get("ETag"),
		Raw:          raw,
	}

	s.log.WithFields(map[string]any{
		"policy":     state.PolicyID,
		"name":       state.Name,
		"membership": len(state.Membership),
	}).Debug("policy state read")

	return state, nil
}

// ReplaceMembership swaps the include list inside the document read at Get
// time and writes the whole document back in one call.
func (s *GitHubStore) ReplaceMembership(ctx context.Context, scope string, state *model.PolicyState, membership []string) error {
	body, err := rewriteInclude(state.Raw, membership)
	if err != nil {
		return rulesyncerrors.NewPolicyError(state.PolicyID, "rewrite membership", err)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	u := fmt.Sprintf("orgs/%s/rulesets/%s", scope, state.PolicyID)
	req, err := s.client.NewRequest(http.MethodPut, u, json.RawMessage(body))
	if err != nil {
		return rulesyncerrors.NewPolicyError(state.PolicyID, "build update request", err)
	}
	if state.Revision != "" {
		req.Header.Set("If-Match", state.Revision)
	}

	resp, err := s.client.Do(callCtx, req, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusPreconditionFailed {
			return rulesyncerrors.NewPolicyError(state.PolicyID, "policy changed out-of-band since read", err)
		}
		return rulesyncerrors.NewPolicyError(state.PolicyID, "update ruleset", err)
	}

	return nil
}

func (s *GitHubStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// rewriteInclude replaces conditions.repository_name.include inside the raw
// document, leaving every sibling field untouched.
func rewriteInclude(raw json.RawMessage, membership []string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty policy document")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	var conditions map[string]json.RawMessage
	if len(fields["conditions"]) > 0 {
		if err := json.Unmarshal(fields["conditions"], &conditions); err != nil {
			return nil, err
		}
	}
	if conditions == nil {
		conditions = map[string]json.RawMessage{}
	}

	var repoName map[string]json.RawMessage
	if len(conditions["repository_name"]) > 0 {
		if err := json.Unmarshal(conditions["repository_name"], &repoName); err != nil {
			return nil, err
		}
	}
	if repoName == nil {
		repoName = map[string]json.RawMessage{}
	}

	if membership == nil {
		membership = []string{}
	}
	include, err := json.Marshal(membership)
	if err != nil {
		return nil, err
	}
	repoName["include"] = include

	repoNameRaw, err := json.Marshal(repoName)
	if err != nil {
		return nil, err
	}
	conditions["repository_name"] = repoNameRaw

	conditionsRaw, err := json.Marshal(conditions)
	if err != nil {
		return nil, err
	}
	fields["conditions"] = conditionsRaw

	return json.Marshal(fields)
}

var _ Store = (*GitHubStore)(nil)
