package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ppiankov/ideaboard/internal/model"
)

// LoaderOptions configures how idea documents are interpreted
type LoaderOptions struct {
	Prefix      string            // Stripped from the file stem to form the ID (e.g., "Idea-")
	Pattern     string            // Glob used by LoadDir (e.g., "Idea-*.md")
	Org         string            // Canonical organization name
	OrgAliases  []string          // Alternative spellings normalized to Org
	DefaultRepo string            // Fallback when RepoMap has no entry
	RepoMap     map[string]string // Idea ID -> "org/name"
	Ordering    []model.CompoundRank
	Logger      *slog.Logger
}

// LoaderOptionsFromConfig builds loader options from the main configuration
func LoaderOptionsFromConfig(cfg *model.Config, logger *slog.Logger) LoaderOptions {
	return LoaderOptions{
		Prefix:      cfg.Source.Prefix,
		Pattern:     cfg.Source.Pattern,
		Org:         cfg.Repository.Org,
		OrgAliases:  cfg.Repository.OrgAliases,
		DefaultRepo: cfg.Repository.DefaultRepo,
		RepoMap:     cfg.Repository.RepoLookup(),
		Ordering:    cfg.Ordering,
		Logger:      logger,
	}
}

// Loader parses idea documents into model.Idea records
type Loader struct {
	opts         LoaderOptions
	discussionRe *regexp.Regexp
	orderer      *Orderer
	logger       *slog.Logger
}

var (
	oneLinerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\*\*One line:\*\*\s*(.+)`),
		regexp.MustCompile(`\*\*One line\*\*:\s*(.+)`),
		regexp.MustCompile(`One line[:\s]+(.+)`),
	}

	repositoryPattern = regexp.MustCompile("(?i)\\*?\\*?Repository[:\\s]+\\*?\\*?\\s*`?([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)")
)

// NewLoader creates a new loader
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Pattern == "" {
		opts.Pattern = "Idea-*.md"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{
		opts:         opts,
		discussionRe: regexp.MustCompile(`https://github\.com/orgs/` + regexp.QuoteMeta(opts.Org) + `/discussions/(\d+)`),
		orderer:      NewOrderer(opts.Ordering),
		logger:       logger,
	}
}

// Orderer returns the ordering used to sort loaded ideas
func (l *Loader) Orderer() *Orderer {
	return l.orderer
}

// LoadDir discovers, parses and sorts the idea documents under root.
// Unreadable files and duplicate IDs are skipped with a warning.
func (l *Loader) LoadDir(root string) ([]*model.Idea, error) {
	pattern := filepath.Join(root, l.opts.Pattern)
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(paths)

	var ideas []*model.Idea
	seen := make(map[string]string)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable idea file", "path", path, "error", err)
			continue
		}

		idea := l.Parse(filepath.Base(path), string(content))
		if first, dup := seen[idea.ID]; dup {
			l.logger.Warn("skipping duplicate idea id", "id", idea.ID, "path", path, "first", first)
			continue
		}
		seen[idea.ID] = path

		if rel, err := filepath.Rel(root, path); err == nil {
			idea.Path = filepath.ToSlash(rel)
		} else {
			idea.Path = idea.Filename
		}

		ideas = append(ideas, idea)
	}

	l.orderer.Sort(ideas)
	return ideas, nil
}

// Parse extracts one idea from a document name and its content.
// Missing fields fall back to defaults; parsing never fails.
func (l *Loader) Parse(name, content string) *model.Idea {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	id := strings.TrimPrefix(stem, l.opts.Prefix)

	rawTitle := FirstHeading(content)
	if rawTitle == "" {
		rawTitle = stem
	}

	return &model.Idea{
		ID:         id,
		Filename:   name,
		Path:       name,
		RawTitle:   rawTitle,
		Title:      CleanTitle(rawTitle),
		OneLiner:   ExtractOneLiner(content),
		Discussion: l.extractDiscussion(content),
		Repo:       l.extractRepo(id, content),
		Related:    RelatedIDs(id, content),
		Body:       content,
	}
}

// ExtractOneLiner returns the text after the first "One line" label, or ""
func ExtractOneLiner(content string) string {
	for _, re := range oneLinerPatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), "*")
		}
	}
	return ""
}

// extractDiscussion finds the first discussion URL for the configured organization
func (l *Loader) extractDiscussion(content string) *model.DiscussionRef {
	m := l.discussionRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	number, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	return &model.DiscussionRef{
		URL:    m[0],
		Number: number,
	}
}

// extractRepo reads the first "Repository: org/name" declaration naming the
// canonical organization or one of its aliases, falling back to the lookup table.
// Prose such as "repository CI/CD" is not a declaration.
func (l *Loader) extractRepo(id, content string) string {
	for _, m := range repositoryPattern.FindAllStringSubmatch(content, -1) {
		org, ok := l.canonicalOrg(m[1])
		if !ok {
			continue
		}
		return org + "/" + strings.TrimRight(m[2], ".")
	}

	if repo, ok := l.opts.RepoMap[id]; ok {
		return repo
	}
	return l.opts.DefaultRepo
}

// canonicalOrg maps the configured organization and its aliases to the canonical name
func (l *Loader) canonicalOrg(org string) (string, bool) {
	if l.opts.Org != "" && strings.EqualFold(org, l.opts.Org) {
		return l.opts.Org, true
	}
	for _, alias := range l.opts.OrgAliases {
		if strings.EqualFold(org, alias) {
			return l.opts.Org, true
		}
	}
	return "", false
}
