// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/retr0h/obas-implant/internal/agent"
	"github.com/retr0h/obas-implant/internal/status"
)

// Theme colors for terminal UI rendering.
var (
	Purple = lipgloss.Color("99")
	Red    = lipgloss.Color("196")
	White  = lipgloss.Color("15")
	Teal   = lipgloss.Color("#06ffa5")
)

// Reusable inline styles for compact key-value output.
var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	valueStyle = lipgloss.NewStyle().Foreground(Teal)
	errorStyle = lipgloss.NewStyle().Foreground(Red)
)

// Section represents a header with its corresponding rows.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// compactMaxColWidth is the maximum column width before truncation.
const compactMaxColWidth = 50

// PrintCompactTable renders a compact column-aligned table (kubectl-style)
// to w. Headers are uppercase purple, data rows alternate teal and white.
// Multi-line cells are flattened and long values truncated with an ellipsis.
func PrintCompactTable(
	w io.Writer,
	sections []Section,
) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(Purple)
	evenStyle := lipgloss.NewStyle().Foreground(Teal)
	oddStyle := lipgloss.NewStyle().Foreground(White)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(Purple)

	const colGap = 2

	for _, section := range sections {
		if section.Title != "" {
			_, _ = fmt.Fprintf(w, "\n  %s:\n", titleStyle.Render(section.Title))
		} else {
			_, _ = fmt.Fprintln(w)
		}

		flatRows := make([][]string, len(section.Rows))
		for r, row := range section.Rows {
			flat := make([]string, len(row))
			for c, cell := range row {
				flat[c] = strings.Join(strings.Fields(cell), " ")
			}
			flatRows[r] = flat
		}

		widths := make([]int, len(section.Headers))
		for i, h := range section.Headers {
			widths[i] = len(h)
		}
		for _, row := range flatRows {
			for i, cell := range row {
				if i < len(widths) && len([]rune(cell)) > widths[i] {
					widths[i] = len([]rune(cell))
				}
			}
		}
		for i := range widths {
			if widths[i] > compactMaxColWidth {
				widths[i] = compactMaxColWidth
			}
		}

		var hdr strings.Builder
		hdr.WriteString("  ")
		for i, h := range section.Headers {
			if i < len(section.Headers)-1 {
				hdr.WriteString(
					headerStyle.Render(fmt.Sprintf("%-*s", widths[i]+colGap, strings.ToUpper(h))),
				)
			} else {
				hdr.WriteString(headerStyle.Render(strings.ToUpper(h)))
			}
		}
		_, _ = fmt.Fprintln(w, hdr.String())

		for r, row := range flatRows {
			rowStyle := evenStyle
			if r%2 != 0 {
				rowStyle = oddStyle
			}
			var line strings.Builder
			line.WriteString("  ")
			for i := range section.Headers {
				cell := ""
				if i < len(row) {
					cell = truncate(row[i], widths[i])
				}
				if i < len(section.Headers)-1 {
					line.WriteString(rowStyle.Render(fmt.Sprintf("%-*s", widths[i]+colGap, cell)))
				} else {
					line.WriteString(rowStyle.Render(cell))
				}
			}
			_, _ = fmt.Fprintln(w, line.String())
		}
	}
}

// truncate shortens cell to width runes, marking the cut with an ellipsis.
func truncate(
	cell string,
	width int,
) string {
	runes := []rune(cell)
	if len(runes) <= width || width < 1 {
		return cell
	}

	return string(runes[:width-1]) + "…"
}

// KVMinColWidth is the minimum visual width for each key-value column.
const KVMinColWidth = 20

// PrintKV prints labeled key-value pairs on a single indented line.
// Arguments alternate between labels and values: label1, val1, label2, val2, ...
func PrintKV(
	w io.Writer,
	pairs ...string,
) {
	if len(pairs)%2 != 0 || len(pairs) == 0 {
		return
	}

	rendered := make([]string, 0, len(pairs)/2)
	maxWidth := KVMinColWidth
	for i := 0; i < len(pairs); i += 2 {
		pair := labelStyle.Render(pairs[i]+":") + " " + valueStyle.Render(pairs[i+1])
		rendered = append(rendered, pair)
		if width := lipgloss.Width(pair); width > maxWidth {
			maxWidth = width
		}
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, pair := range rendered {
		line.WriteString(pair)
		if i < len(rendered)-1 {
			pad := maxWidth - lipgloss.Width(pair) + 4
			line.WriteString(strings.Repeat(" ", pad))
		}
	}
	_, _ = fmt.Fprintln(w, line.String())
}

// FormatDuration formats milliseconds as a short human-readable duration.
func FormatDuration(
	ms int64,
) string {
	if ms <= 0 {
		return "0s"
	}

	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return d.String()
	}

	return d.Round(100 * time.Millisecond).String()
}

// RenderStatus styles s for display: failures in red.
func RenderStatus(
	s status.Status,
) string {
	if s.IsSuccessful() {
		return valueStyle.Render(string(s))
	}

	return errorStyle.Render(string(s))
}

// PrintRunSummary writes the outcome header and one table row per report.
func PrintRunSummary(
	w io.Writer,
	outcome *agent.Outcome,
) {
	_, _ = fmt.Fprintln(w)
	PrintKV(w,
		"Run", outcome.RunID,
		"Type", string(outcome.Kind),
	)
	_, _ = fmt.Fprintf(w, "  %s %s    %s %s    %s %s\n",
		labelStyle.Render("Status:"), RenderStatus(outcome.Status),
		labelStyle.Render("Exit Code:"), valueStyle.Render(strconv.Itoa(outcome.ExitCode)),
		labelStyle.Render("Duration:"), valueStyle.Render(FormatDuration(outcome.DurationMs)),
	)

	rows := make([][]string, 0, len(outcome.Reports))
	for _, report := range outcome.Reports {
		delivered := "yes"
		if !report.Delivered {
			delivered = "no"
		}

		output := report.Output.Stdout
		if output == "" {
			output = report.Output.Stderr
		}

		rows = append(rows, []string{
			report.Stage.Label,
			string(report.Status),
			strconv.Itoa(report.Output.ExitCode),
			FormatDuration(report.DurationMs),
			delivered,
			output,
		})
	}

	PrintCompactTable(w, []Section{
		{
			Title:   "Reports",
			Headers: []string{"ACTION", "STATUS", "EXIT CODE", "DURATION", "SENT", "OUTPUT"},
			Rows:    rows,
		},
	})
}
