package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ppiankov/ideaboard/internal/view"
	"github.com/spf13/cobra"
)

var (
	inspectSearch string
	inspectRepo   string
	inspectSort   string
	inspectDesc   bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <page.html>",
	Short: "Show the rows of a generated dashboard",
	Long: `Inspect reads a generated page and prints its idea rows with the same
search, repository filter and column sort the page offers in a browser.

Sortable columns: id, title, one-liner, repo, discussion, overlaps, contributors

Example:
  ideaboard inspect docs/index.html
  ideaboard inspect docs/index.html --search scanner --repo OWASP-BLT/BLT
  ideaboard inspect docs/index.html --sort overlaps --desc`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectSearch, "search", "", "keep rows containing this text (case-insensitive)")
	inspectCmd.Flags().StringVar(&inspectRepo, "repo", "", "keep rows of this repository (org/name)")
	inspectCmd.Flags().StringVar(&inspectSort, "sort", "", "sort by column")
	inspectCmd.Flags().BoolVar(&inspectDesc, "desc", false, "sort descending")
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := view.ParseRows(f)
	if err != nil {
		return err
	}

	rows = view.Filter(rows, inspectSearch, inspectRepo)
	if inspectSort != "" {
		col, ok := view.Column(inspectSort)
		if !ok {
			return fmt.Errorf("unknown column %q", inspectSort)
		}
		rows = view.Sort(rows, col, inspectDesc)
	}

	printRows(os.Stdout, rows)
	return nil
}

// printRows writes the rows as a table followed by the summary counts
func printRows(w io.Writer, rows []view.Row) {
	s := newStyles(w)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		discussion := "—"
		if r.Discussion != "" {
			discussion = "#" + r.Discussion
		}
		data = append(data, []string{
			r.ID,
			r.Cell(view.ColTitle).Text,
			r.RepoName(),
			discussion,
			strconv.Itoa(r.Overlaps),
			strconv.Itoa(len(r.Contributors)),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.muted).
		Headers("IDEA", "TITLE", "REPO", "DISCUSSION", "OVERLAPS", "CONTRIBUTORS").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return style.Inherit(s.title)
			}
			if col >= 3 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	fmt.Fprintln(w, tbl.Render())

	stats := view.ComputeStats(rows)
	fmt.Fprintln(w, s.muted.Render(strings.Join([]string{
		fmt.Sprintf("%d ideas", stats.Total),
		fmt.Sprintf("%d with discussion", stats.WithDiscussion),
		fmt.Sprintf("%d with overlaps", stats.WithOverlaps),
		fmt.Sprintf("%d contributors", stats.Contributors),
	}, " · ")))
}
