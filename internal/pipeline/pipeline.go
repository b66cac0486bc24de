package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ppiankov/ideaboard/internal/cache"
	"github.com/ppiankov/ideaboard/internal/enrich"
	"github.com/ppiankov/ideaboard/internal/extract"
	"github.com/ppiankov/ideaboard/internal/github"
	"github.com/ppiankov/ideaboard/internal/llm"
	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/ppiankov/ideaboard/internal/output"
	"github.com/ppiankov/ideaboard/internal/overlap"
	"github.com/ppiankov/ideaboard/internal/page"
	"github.com/ppiankov/ideaboard/internal/view"
)

// Pipeline orchestrates one dashboard generation run
type Pipeline struct {
	config   *model.Config
	loader   *extract.Loader
	enricher *enrich.Enricher
	renderer *page.Renderer
	writer   *output.Writer
	log      *slog.Logger
	progress io.Writer
	now      func() time.Time
}

// Result describes a finished run
type Result struct {
	Ideas             []*model.Idea
	Matrix            *overlap.Matrix
	Enrichment        enrich.Stats
	PagePath          string
	SiteConfigCreated bool
	Summary           view.Stats // Counts read back from the written page
	Repos             []string
	Duration          time.Duration
}

// NewPipeline wires every stage from cfg. Progress lines go to progress
// (io.Discard when nil); diagnostics go to logger.
func NewPipeline(cfg *model.Config, logger *slog.Logger, progress io.Writer) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = io.Discard
	}

	client := github.NewClient(github.OptionsFromConfig(cfg, cache.New(cfg.Cache), logger))
	if !client.HasToken() {
		logger.Warn("GITHUB_TOKEN not set; discussion participants and pull request authors will be empty")
	}

	// Backfill is optional: a misconfigured provider only disables it
	var backfill *enrich.Backfill
	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
		if err != nil {
			logger.Warn("one-liner backfill disabled", "provider", cfg.LLM.Provider, "error", err)
		} else if provider != nil {
			backfill = enrich.NewBackfill(provider, cfg.LLM.Model, logger)
		}
	}

	renderer, err := page.NewRenderer(page.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	repo := cfg.Repository
	return &Pipeline{
		config: cfg,
		loader: extract.NewLoader(extract.LoaderOptionsFromConfig(cfg, logger)),
		enricher: enrich.New(enrich.Options{
			History:      enrich.NewGitHistory(cfg.Source.Root, cfg.HTTP.Timeout, logger),
			Discussions:  enrich.NewDiscussions(client, repo.Org, cfg.GitHub.CommentLimit, logger),
			PullRequests: enrich.NewPullRequests(client, repo.Owner, repo.Name, cfg.GitHub.PullRequestLimit, logger),
			Backfill:     backfill,
			Logger:       logger,
		}),
		renderer: renderer,
		writer:   output.NewWriter(cfg.Output.Dir, cfg.Output.Page, cfg.Output.SiteConfig),
		log:      logger,
		progress: progress,
		now:      time.Now,
	}, nil
}

// Run loads, enriches, analyses, renders and writes the dashboard.
// Only output failures are returned; enrichment problems degrade to empty data.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.now()
	root := p.config.Source.Root

	// 1. Load
	p.progressf("⚙️  Loading ideas from %s...\n", root)
	ideas, err := p.loader.LoadDir(root)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	if len(ideas) == 0 {
		p.log.Warn("no idea documents found", "root", root, "pattern", p.config.Source.Pattern)
	}
	p.progressf("✓ Loaded %d ideas\n", len(ideas))

	// 2. Enrich
	p.progressf("⚙️  Fetching contributors...\n")
	stats := p.enricher.Enrich(ctx, ideas)
	p.progressf("✓ Contributors: %d from history, %d from discussions, %d from pull requests\n",
		stats.History, stats.Discussions, stats.PullRequests)
	if stats.Backfilled > 0 {
		p.progressf("✓ Generated %d one-liners\n", stats.Backfilled)
	}
	if stats.Unavailable > 0 {
		p.progressf("✗ %d lookups unavailable\n", stats.Unavailable)
	}

	// 3. Overlap
	matrix := overlap.Build(ideas)
	p.progressf("✓ Built %dx%d overlap matrix\n", matrix.Len(), matrix.Len())

	// 4. Render
	html, err := p.renderer.RenderBytes(&page.Dashboard{
		Ideas:       ideas,
		Matrix:      matrix,
		GeneratedAt: start,
	})
	if err != nil {
		return nil, err
	}

	// 5. Write
	path, err := p.writer.WritePage(html)
	if err != nil {
		return nil, err
	}
	p.progressf("✓ Wrote page: %s\n", path)

	created, err := p.writer.EnsureSiteConfig()
	if err != nil {
		return nil, err
	}
	if created {
		p.progressf("✓ Created site config: %s\n", p.writer.SiteConfigPath())
	}

	// 6. Read the page back for the summary
	rows, err := view.ParseRows(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}

	return &Result{
		Ideas:             ideas,
		Matrix:            matrix,
		Enrichment:        stats,
		PagePath:          path,
		SiteConfigCreated: created,
		Summary:           view.ComputeStats(rows),
		Repos:             view.Repos(rows),
		Duration:          p.now().Sub(start),
	}, nil
}

func (p *Pipeline) progressf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.progress, format, args...)
}
