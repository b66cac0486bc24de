package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/ppiankov/ideaboard/internal/pipeline"
)

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
}

var banner = strings.Repeat("═", 59)

// newStyles returns colored styles for terminals and plain ones otherwise
func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, label: plain, value: plain, muted: plain, accent: plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		value:  lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		accent: lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printRunSummary prints the counts read back from the written page
func printRunSummary(w io.Writer, result *pipeline.Result) {
	s := newStyles(w)
	line := func(label string, value any) {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render(fmt.Sprintf("%-22s", label+":")), s.value.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.muted.Render(banner))
	fmt.Fprintln(w, s.title.Render("  Dashboard Generated"))
	fmt.Fprintln(w, s.muted.Render(banner))
	fmt.Fprintln(w)

	line("Total ideas", result.Summary.Total)
	line("With discussion post", result.Summary.WithDiscussion)
	line("With overlapping ideas", result.Summary.WithOverlaps)
	line("Unique contributors", result.Summary.Contributors)
	line("Repositories", strings.Join(result.Repos, ", "))
	if result.Enrichment.Backfilled > 0 {
		line("Generated one-liners", result.Enrichment.Backfilled)
	}
	fmt.Fprintln(w)

	if top := result.Matrix.TopConnected(5); len(top) > 0 && top[0].Degree > 0 {
		fmt.Fprintln(w, s.title.Render("  Most-connected ideas"))
		for i, r := range top {
			if r.Degree == 0 {
				break
			}
			fmt.Fprintf(w, "  %d. %s %s\n", i+1, s.accent.Render("Idea "+r.ID), s.muted.Render(fmt.Sprintf("(%d connections)", r.Degree)))
		}
		fmt.Fprintln(w)
	}

	line("Page", result.PagePath)
	line("Duration", result.Duration.Round(time.Millisecond))
	fmt.Fprintln(w)
}
