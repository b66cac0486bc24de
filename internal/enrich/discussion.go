package enrich

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ppiankov/ideaboard/internal/github"
)

// DiscussionSource returns the participants of a discussion thread
type DiscussionSource interface {
	Participants(ctx context.Context, number int) Result[[]string]
}

// DiscussionClient is the slice of the GitHub client used for discussions
type DiscussionClient interface {
	HasToken() bool
	DiscussionParticipants(ctx context.Context, org string, number, limit int) ([]string, error)
}

// Discussions looks up thread participants in one organization
type Discussions struct {
	client DiscussionClient
	org    string
	limit  int
	log    *slog.Logger
}

// NewDiscussions creates a discussion source for org, reading up to limit comments
func NewDiscussions(client DiscussionClient, org string, limit int, logger *slog.Logger) *Discussions {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discussions{client: client, org: org, limit: limit, log: logger}
}

// Participants returns the thread author plus distinct comment authors
func (d *Discussions) Participants(ctx context.Context, number int) Result[[]string] {
	if !d.client.HasToken() {
		return Unavailable[[]string]("no GitHub token")
	}

	participants, err := d.client.DiscussionParticipants(ctx, d.org, number, d.limit)
	if err != nil {
		if !errors.Is(err, github.ErrNoToken) {
			d.log.Warn("discussion lookup failed", "org", d.org, "number", number, "error", err)
		}
		return Unavailable[[]string](err.Error())
	}

	return Found(participants)
}
