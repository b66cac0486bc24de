package enrich

import (
	"context"
	"log/slog"

	"github.com/ppiankov/ideaboard/internal/model"
)

// Options wires the enrichment sources. Nil sources are skipped.
type Options struct {
	History      HistorySource
	Discussions  DiscussionSource
	PullRequests PullRequestSource
	Backfill     *Backfill
	Logger       *slog.Logger
}

// Stats counts how many lookups produced data
type Stats struct {
	History      int
	Discussions  int
	PullRequests int
	Backfilled   int
	Unavailable  int
}

// Enricher runs every source over the loaded ideas, one call at a time
type Enricher struct {
	opts Options
	log  *slog.Logger
}

// New creates an enricher
func New(opts Options) *Enricher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enricher{opts: opts, log: logger}
}

// Enrich fills the contributor fields of every idea and, when a backfill is
// configured, missing one-liners. It never fails: unavailable lookups leave
// the corresponding field empty.
func (e *Enricher) Enrich(ctx context.Context, ideas []*model.Idea) Stats {
	var stats Stats

	// 1. History per document
	if e.opts.History != nil {
		for _, idea := range ideas {
			path := idea.Path
			if path == "" {
				path = idea.Filename
			}
			res := e.opts.History.Contributors(ctx, path)
			if !res.Available {
				stats.Unavailable++
				continue
			}
			idea.GitContributors = res.Value
			stats.History++
		}
	}

	// 2. Discussion participants, only for ideas that link a thread
	if e.opts.Discussions != nil {
		for _, idea := range ideas {
			if !idea.HasDiscussion() {
				continue
			}
			res := e.opts.Discussions.Participants(ctx, idea.Discussion.Number)
			if !res.Available {
				stats.Unavailable++
				continue
			}
			idea.DiscussionParticipants = res.Value
			stats.Discussions++
		}
	}

	// 3. Pull request authors, one listing per run
	if e.opts.PullRequests != nil {
		ids := make([]string, len(ideas))
		for i, idea := range ideas {
			ids[i] = idea.ID
		}

		res := e.opts.PullRequests.AuthorsByIdea(ctx, ids)
		if res.Available {
			for _, idea := range ideas {
				if authors := res.Value[idea.ID]; len(authors) > 0 {
					idea.PullRequestAuthors = authors
					stats.PullRequests++
				}
			}
		} else {
			stats.Unavailable++
		}
	}

	// 4. One-liner backfill
	if e.opts.Backfill != nil {
		for _, idea := range ideas {
			if idea.OneLiner != "" {
				continue
			}
			res := e.opts.Backfill.OneLiner(ctx, idea)
			if !res.Available {
				continue
			}
			idea.OneLiner = res.Value
			idea.OneLinerGenerated = true
			stats.Backfilled++
		}
	}

	for _, idea := range ideas {
		idea.MergeContributors()
	}

	e.log.Debug("enrichment finished",
		"history", stats.History,
		"discussions", stats.Discussions,
		"pull_requests", stats.PullRequests,
		"backfilled", stats.Backfilled,
		"unavailable", stats.Unavailable)

	return stats
}
