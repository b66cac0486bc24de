package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ppiankov/ideaboard/internal/llm"
	"github.com/ppiankov/ideaboard/internal/model"
)

// Backfill generates one-liners for ideas whose document has none
type Backfill struct {
	provider llm.Provider
	model    string
	log      *slog.Logger
}

// NewBackfill wraps an LLM provider; a nil provider disables the backfill
func NewBackfill(provider llm.Provider, modelName string, logger *slog.Logger) *Backfill {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backfill{provider: provider, model: modelName, log: logger}
}

// OneLiner returns a generated summary for idea
func (b *Backfill) OneLiner(ctx context.Context, idea *model.Idea) Result[string] {
	if b == nil || b.provider == nil {
		return Unavailable[string]("backfill disabled")
	}
	if strings.TrimSpace(idea.Body) == "" {
		return Unavailable[string]("empty document")
	}

	resp, err := b.provider.Summarize(ctx, llm.SummarizeRequest{
		IdeaID:      idea.ID,
		Title:       idea.Title,
		Body:        idea.Body,
		AllowedURLs: llm.ExtractURLs(idea.Body),
		Model:       b.model,
	})
	if err != nil {
		b.log.Warn("one-liner backfill failed", "idea", idea.ID, "provider", b.provider.Name(), "error", err)
		return Unavailable[string](err.Error())
	}

	return Found(resp.Summary)
}
