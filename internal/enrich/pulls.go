package enrich

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ppiankov/ideaboard/internal/extract"
	"github.com/ppiankov/ideaboard/internal/github"
	"github.com/ppiankov/ideaboard/internal/overlap"
)

// PullRequestSource returns PR authors keyed by the idea their title references
type PullRequestSource interface {
	AuthorsByIdea(ctx context.Context, ids []string) Result[map[string][]string]
}

// PullRequestClient is the slice of the GitHub client used for pull requests
type PullRequestClient interface {
	HasToken() bool
	PullRequests(ctx context.Context, owner, name string, limit int) ([]github.PullRequest, error)
}

// PullRequests attributes pull request authors of the ideas repository
type PullRequests struct {
	client PullRequestClient
	owner  string
	name   string
	limit  int
	log    *slog.Logger
}

// NewPullRequests creates a PR source for owner/name
func NewPullRequests(client PullRequestClient, owner, name string, limit int, logger *slog.Logger) *PullRequests {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PullRequests{client: client, owner: owner, name: name, limit: limit, log: logger}
}

// AuthorsByIdea lists the repository's PRs once and attributes each author to
// every idea the PR title references ("Idea B: ..."), resolved like overlap references
func (p *PullRequests) AuthorsByIdea(ctx context.Context, ids []string) Result[map[string][]string] {
	if !p.client.HasToken() {
		return Unavailable[map[string][]string]("no GitHub token")
	}

	prs, err := p.client.PullRequests(ctx, p.owner, p.name, p.limit)
	if err != nil {
		p.log.Warn("pull request lookup failed", "repo", p.owner+"/"+p.name, "error", err)
		return Unavailable[map[string][]string](err.Error())
	}

	return Found(AttributePullRequests(prs, ids))
}

// AttributePullRequests maps each idea ID to the sorted, distinct authors of PRs
// whose titles reference it
func AttributePullRequests(prs []github.PullRequest, ids []string) map[string][]string {
	sets := make(map[string]map[string]bool)

	for _, pr := range prs {
		author := pr.Author()
		if author == "" {
			continue
		}
		for _, ref := range extract.References(pr.Title) {
			for _, id := range overlap.Resolve(ids, ref) {
				if sets[id] == nil {
					sets[id] = make(map[string]bool)
				}
				sets[id][author] = true
			}
		}
	}

	authors := make(map[string][]string, len(sets))
	for id, set := range sets {
		list := make([]string, 0, len(set))
		for name := range set {
			list = append(list, name)
		}
		sort.Strings(list)
		authors[id] = list
	}
	return authors
}
