package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v73/github"

	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
	rulesyncerrors "github.com/skyeshanohan/rulesync/pkg/errors"
)

const listPageSize = 100

// GitHubLister enumerates an organization's repositories.
type GitHubLister struct {
	client  *github.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewGitHubLister builds a lister over an authenticated client. timeout
// bounds each individual page fetch.
func NewGitHubLister(client *github.Client, timeout time.Duration, log *logger.Logger) *GitHubLister {
	return &GitHubLister{client: client, timeout: timeout, log: log}
}

// List returns every repository in the organization, tagged with its
// archived flag. Pagination failures abort immediately.
func (l *GitHubLister) List(ctx context.Context, scope string) ([]model.Resource, error) {
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var resources []model.Resource
	page := 1

	for {
		repos, resp, err := l.listPage(ctx, scope, opts)
		if err != nil {
			return nil, rulesyncerrors.NewEnumerationError(scope, page, err)
		}

		for _, repo := range repos {
			if repo.GetName() == "" {
				return nil, rulesyncerrors.NewEnumerationError(scope, page, fmt.Errorf("repository without a name in listing"))
			}
			resources = append(resources, model.Resource{
				ID:           repo.GetName(),
				Archived:     repo.GetArchived(),
				LastModified: repo.GetPushedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page = resp.NextPage
	}

	l.log.WithFields(map[string]any{"scope": scope, "resources": len(resources)}).Debug("inventory enumeration complete")

	return resources, nil
}

func (l *GitHubLister) listPage(ctx context.Context, scope string, opts *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error) {
	pageCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	return l.client.Repositories.ListByOrg(pageCtx, scope, opts)
}
