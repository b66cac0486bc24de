// Package page renders the static idea dashboard.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/ppiankov/ideaboard/internal/overlap"
)

var (
	//go:embed templates/dashboard.html.tmpl
	dashboardTemplate string

	//go:embed assets/dashboard.css
	dashboardCSS string

	//go:embed assets/dashboard.js
	dashboardJS string
)

// Options controls page content
type Options struct {
	Title           string
	RepoURL         string // Web URL of the ideas repository
	RepoLabel       string // "owner/name"
	Branch          string
	MaxContributors int
	OneLinerLimit   int // In runes
	TopConnected    int
}

// OptionsFromConfig builds renderer options from the run configuration
func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		Title:           cfg.Output.Title,
		RepoURL:         cfg.Repository.URL(),
		RepoLabel:       cfg.Repository.Owner + "/" + cfg.Repository.Name,
		Branch:          cfg.Repository.Branch,
		MaxContributors: cfg.Output.MaxContributors,
		OneLinerLimit:   cfg.Output.OneLinerLimit,
		TopConnected:    cfg.Output.TopConnected,
	}
}

// Dashboard is everything one page is rendered from
type Dashboard struct {
	Ideas       []*model.Idea
	Matrix      *overlap.Matrix
	GeneratedAt time.Time // Zero omits the timestamp
}

// Renderer turns a Dashboard into a self-contained HTML page
type Renderer struct {
	opts Options
	tmpl *template.Template
}

// NewRenderer parses the embedded template
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	if opts.MaxContributors <= 0 {
		opts.MaxContributors = 10
	}
	if opts.OneLinerLimit <= 0 {
		opts.OneLinerLimit = 120
	}
	if opts.TopConnected <= 0 {
		opts.TopConnected = 5
	}

	tmpl, err := template.New("dashboard").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &Renderer{opts: opts, tmpl: tmpl}, nil
}

// Render writes the page for d to w
func (r *Renderer) Render(w io.Writer, d *Dashboard) error {
	if d.Matrix == nil {
		d = &Dashboard{Ideas: d.Ideas, Matrix: overlap.Build(d.Ideas), GeneratedAt: d.GeneratedAt}
	}
	if err := r.tmpl.Execute(w, r.pageData(d)); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// RenderBytes renders the page into memory
func (r *Renderer) RenderBytes(d *Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pageData struct {
	Title       string
	RepoURL     string
	RepoLabel   string
	Total       int
	GeneratedAt string
	Stats       stats
	Rows        []row
	MatrixIDs   []string
	Matrix      []matrixRow
	Top         []topEntry
	CSS         template.CSS
	JS          template.JS
}

type stats struct {
	WithDiscussion int
	WithOverlaps   int
	Contributors   int
}

type row struct {
	Anchor            string
	ID                string
	FileURL           string
	RawTitle          string
	Title             string
	OneLiner          string // Truncated for display
	OneLinerFull      string
	OneLinerGenerated bool
	Repo              string
	RepoName          string
	RepoURL           string
	DiscussionURL     string
	DiscussionNumber  int
	Overlaps          []link
	Contributors      []string // Displayed subset
	MoreContributors  int
	ContributorList   string // Every contributor, newline separated

	SortIndex        string
	SortDiscussion   string
	SortOverlaps     string
	SortContributors string
}

type link struct {
	ID     string
	Title  string
	Anchor string
}

type matrixRow struct {
	ID      string
	FileURL string
	Cells   []matrixCell
}

type matrixCell struct {
	Self          bool
	On            bool
	Partner       string
	PartnerAnchor string
}

type topEntry struct {
	ID     string
	Title  string
	Anchor string
	Degree int
}

func (r *Renderer) pageData(d *Dashboard) pageData {
	anchors := Anchors(d.Ideas)
	byID := make(map[string]*model.Idea, len(d.Ideas))
	for _, idea := range d.Ideas {
		if _, dup := byID[idea.ID]; !dup {
			byID[idea.ID] = idea
		}
	}

	data := pageData{
		Title:     r.opts.Title,
		RepoURL:   r.opts.RepoURL,
		RepoLabel: r.opts.RepoLabel,
		Total:     len(d.Ideas),
		CSS:       template.CSS(dashboardCSS),
		JS:        template.JS(dashboardJS),
	}
	if !d.GeneratedAt.IsZero() {
		data.GeneratedAt = d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")
	}

	everyone := make(map[string]bool)
	for i, idea := range d.Ideas {
		rw := r.row(i, idea, d.Matrix, anchors, byID)
		data.Rows = append(data.Rows, rw)

		if rw.DiscussionURL != "" {
			data.Stats.WithDiscussion++
		}
		if len(rw.Overlaps) > 0 {
			data.Stats.WithOverlaps++
		}
		for _, c := range idea.Contributors {
			everyone[c] = true
		}
	}
	data.Stats.Contributors = len(everyone)

	data.MatrixIDs = d.Matrix.IDs()
	for _, id := range data.MatrixIDs {
		mr := matrixRow{ID: id}
		if idea := byID[id]; idea != nil {
			mr.FileURL = r.fileURL(idea)
		}
		for _, col := range data.MatrixIDs {
			mr.Cells = append(mr.Cells, matrixCell{
				Self:          col == id,
				On:            col != id && d.Matrix.Has(id, col),
				Partner:       col,
				PartnerAnchor: anchors[col],
			})
		}
		data.Matrix = append(data.Matrix, mr)
	}

	for _, ranked := range d.Matrix.TopConnected(r.opts.TopConnected) {
		entry := topEntry{ID: ranked.ID, Anchor: anchors[ranked.ID], Degree: ranked.Degree}
		if idea := byID[ranked.ID]; idea != nil {
			entry.Title = idea.Title
		}
		data.Top = append(data.Top, entry)
	}

	return data
}

func (r *Renderer) row(index int, idea *model.Idea, m *overlap.Matrix, anchors map[string]string, byID map[string]*model.Idea) row {
	rw := row{
		Anchor:            anchors[idea.ID],
		ID:                idea.ID,
		FileURL:           r.fileURL(idea),
		RawTitle:          idea.RawTitle,
		Title:             idea.Title,
		OneLiner:          Truncate(idea.OneLiner, r.opts.OneLinerLimit),
		OneLinerFull:      idea.OneLiner,
		OneLinerGenerated: idea.OneLinerGenerated,
		Repo:              idea.Repo,
		RepoName:          idea.RepoName(),
		RepoURL:           "https://github.com/" + idea.Repo,
		SortIndex:         fmt.Sprintf("%06d", index),
		SortDiscussion:    "000000",
	}

	if idea.HasDiscussion() {
		rw.DiscussionURL = idea.Discussion.URL
		rw.DiscussionNumber = idea.Discussion.Number
		rw.SortDiscussion = fmt.Sprintf("%06d", idea.Discussion.Number)
	}

	for _, id := range m.Neighbors(idea.ID) {
		l := link{ID: id, Anchor: anchors[id]}
		if other := byID[id]; other != nil {
			l.Title = other.Title
		}
		rw.Overlaps = append(rw.Overlaps, l)
	}
	rw.SortOverlaps = fmt.Sprintf("%03d", len(rw.Overlaps))

	rw.Contributors, rw.MoreContributors = capList(idea.Contributors, r.opts.MaxContributors)
	rw.ContributorList = strings.Join(idea.Contributors, "\n")
	rw.SortContributors = fmt.Sprintf("%03d", len(idea.Contributors))

	return rw
}

func (r *Renderer) fileURL(idea *model.Idea) string {
	path := idea.Path
	if path == "" {
		path = idea.Filename
	}
	return strings.TrimRight(r.opts.RepoURL, "/") + "/blob/" + r.opts.Branch + "/" + path
}

// Truncate shortens s to limit runes, appending "…" when anything was cut
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}

// capList returns the first limit items and how many were left out
func capList(items []string, limit int) ([]string, int) {
	if limit <= 0 || len(items) <= limit {
		return items, 0
	}
	return items[:limit], len(items) - limit
}

// Anchors assigns every idea a unique, URL-safe row anchor ("idea-e-1")
func Anchors(ideas []*model.Idea) map[string]string {
	anchors := make(map[string]string, len(ideas))
	used := make(map[string]bool, len(ideas))

	for _, idea := range ideas {
		if _, done := anchors[idea.ID]; done {
			continue
		}
		base := slug.Make("idea " + idea.ID)
		anchor := base
		for n := 2; used[anchor]; n++ {
			anchor = fmt.Sprintf("%s-%d", base, n)
		}
		used[anchor] = true
		anchors[idea.ID] = anchor
	}

	return anchors
}
