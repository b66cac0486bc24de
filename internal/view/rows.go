// Package view reads a rendered dashboard back and applies the same sort,
// filter and summary rules as the page's embedded script.
package view

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TableID is the id attribute of the ideas table
const TableID = "ideas-table"

// Column indexes of the ideas table
const (
	ColID = iota
	ColTitle
	ColOneLiner
	ColRepo
	ColDiscussion
	ColOverlaps
	ColContributors
)

var columnNames = map[string]int{
	"id":           ColID,
	"idea":         ColID,
	"title":        ColTitle,
	"one-liner":    ColOneLiner,
	"oneliner":     ColOneLiner,
	"repo":         ColRepo,
	"discussion":   ColDiscussion,
	"overlaps":     ColOverlaps,
	"contributors": ColContributors,
}

// Column resolves a column name ("title", "overlaps", ...) to its index
func Column(name string) (int, bool) {
	col, ok := columnNames[strings.ToLower(strings.TrimSpace(name))]
	return col, ok
}

// Cell is one table cell
type Cell struct {
	Text    string
	SortKey string // data-sort, or Text when absent
}

// Row is one rendered idea row
type Row struct {
	ID           string
	Anchor       string
	Repo         string // Full "org/name"
	Discussion   string // Thread number, empty when none
	Overlaps     int
	Contributors []string
	Cells        []Cell
	Text         string // Whole-row text, searched by Filter
}

// RepoName is the repository name without its organization
func (r Row) RepoName() string {
	return r.Repo[strings.LastIndex(r.Repo, "/")+1:]
}

// Cell returns the cell at col, or an empty cell when out of range
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col]
}

// ParseRows extracts the idea rows from a rendered page
func ParseRows(r io.Reader) ([]Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	table := findByID(doc, TableID)
	if table == nil {
		return nil, fmt.Errorf("table #%s not found", TableID)
	}

	var rows []Row
	for body := table.FirstChild; body != nil; body = body.NextSibling {
		if body.Type != html.ElementNode || body.DataAtom != atom.Tbody {
			continue
		}
		for tr := body.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.Type == html.ElementNode && tr.DataAtom == atom.Tr {
				rows = append(rows, parseRow(tr))
			}
		}
	}

	return rows, nil
}

func parseRow(tr *html.Node) Row {
	row := Row{
		ID:         attr(tr, "data-id"),
		Anchor:     attr(tr, "id"),
		Repo:       attr(tr, "data-repo"),
		Discussion: attr(tr, "data-discussion"),
	}
	row.Overlaps, _ = strconv.Atoi(attr(tr, "data-overlaps"))

	for _, name := range strings.Split(attr(tr, "data-contributors"), "\n") {
		if name = strings.TrimSpace(name); name != "" {
			row.Contributors = append(row.Contributors, name)
		}
	}

	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type != html.ElementNode || td.DataAtom != atom.Td {
			continue
		}
		text := strings.TrimSpace(textContent(td))
		key, ok := lookupAttr(td, "data-sort")
		if !ok {
			key = text
		}
		row.Cells = append(row.Cells, Cell{Text: text, SortKey: key})
	}

	row.Text = textContent(tr)
	return row
}

// Sort orders rows by a column's sort key, case-insensitively.
// Equal keys keep their current relative order in both directions.
func Sort(rows []Row, col int, desc bool) []Row {
	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := strings.ToLower(strings.TrimSpace(sorted[i].Cell(col).SortKey))
		b := strings.ToLower(strings.TrimSpace(sorted[j].Cell(col).SortKey))
		if desc {
			return a > b
		}
		return a < b
	})
	return sorted
}

// Filter keeps rows whose text contains query (case-insensitive) and whose
// full "org/name" repository equals repo (case-insensitive). Empty arguments match everything.
func Filter(rows []Row, query, repo string) []Row {
	q := strings.ToLower(strings.TrimSpace(query))
	repo = strings.ToLower(repo)

	var out []Row
	for _, row := range rows {
		if q != "" && !strings.Contains(strings.ToLower(row.Text), q) {
			continue
		}
		if repo != "" && strings.ToLower(row.Repo) != repo {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Repos returns the sorted distinct full repository names, as offered by the filter
func Repos(rows []Row) []string {
	seen := make(map[string]bool)
	var repos []string
	for _, row := range rows {
		if row.Repo != "" && !seen[row.Repo] {
			seen[row.Repo] = true
			repos = append(repos, row.Repo)
		}
	}
	sort.Strings(repos)
	return repos
}

// Stats are the summary counts shown above the table
type Stats struct {
	Total          int
	WithDiscussion int
	WithOverlaps   int
	Contributors   int
}

// ComputeStats derives the summary counts from rows
func ComputeStats(rows []Row) Stats {
	stats := Stats{Total: len(rows)}
	everyone := make(map[string]bool)

	for _, row := range rows {
		if row.Discussion != "" {
			stats.WithDiscussion++
		}
		if row.Overlaps > 0 {
			stats.WithOverlaps++
		}
		for _, c := range row.Contributors {
			everyone[c] = true
		}
	}

	stats.Contributors = len(everyone)
	return stats
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
