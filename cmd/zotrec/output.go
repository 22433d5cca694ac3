package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/matsen/zotrec/internal/app"
	"github.com/matsen/zotrec/internal/paper"
	"github.com/matsen/zotrec/internal/resolve"
)

// Constants for output formatting.
const (
	TitleMaxLen   = 70 // Title column in the recommendations table
	AuthorsMaxLen = 30 // Authors column in the recommendations table
	AuthorsShown  = 2  // Authors listed before "et al."
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput || browseOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgress returns a progress callback drawing a bar on stderr, or nil
// when stderr is not a terminal.
func newProgress(enabled bool) resolve.ProgressFunc {
	if !enabled || !isTerminal(os.Stderr) {
		return nil
	}

	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("resolving titles"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
		if done == total {
			_ = bar.Finish()
		}
	}
}

// renderTable renders rows under headers with rounded borders. Columns
// listed in right are right-aligned.
func renderTable(headers []string, rows [][]string, right ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(right))
	for _, col := range right {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// printReportHuman writes the run summary and recommendation table to w.
func printReportHuman(w io.Writer, r *app.Report) {
	scope := "library"
	if r.Collection != "" {
		scope = fmt.Sprintf("collection %q", r.Collection)
	}
	fmt.Fprintf(w, "Resolved %d of %d titles in %s (%d looked up, %d cached, %d unmatched)\n",
		r.Resolved, r.Titles, scope, r.Lookups, r.CacheHits, r.Unmatched)
	if r.Truncated {
		fmt.Fprintf(w, "Only the first %d papers were sent for recommendations\n", r.Sent)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Recommendation request failed: %s\n", r.Error)
		return
	}
	if len(r.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations returned")
		return
	}

	fmt.Fprintln(w, renderTable(
		[]string{"#", "Title", "Authors", "Year", "Cited"},
		recommendationRows(r.Recommendations),
		1, 4, 5,
	))
}

func recommendationRows(papers []paper.Recommendation) [][]string {
	rows := make([][]string, 0, len(papers))
	for i, p := range papers {
		year := ""
		if p.Year > 0 {
			year = strconv.Itoa(p.Year)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncateString(p.Title, TitleMaxLen),
			truncateString(formatAuthorsShort(p.Authors, AuthorsShown), AuthorsMaxLen),
			year,
			strconv.Itoa(p.CitationCount),
		})
	}
	return rows
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort lists up to maxCount authors and adds "et al." for the rest.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + " et al."
}
