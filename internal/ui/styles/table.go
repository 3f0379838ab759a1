package styles

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// MaxCellWidth caps a single table cell before truncation kicks in.
const MaxCellWidth = 48

// TruncateString truncates s to maxWidth display cells, appending an
// ellipsis when content was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return truncate.StringWithTail(s, uint(maxWidth), "…")
}

// Table renders headers and rows as aligned plain-text columns. Cells wider
// than MaxCellWidth are truncated so one long take name cannot blow up the
// layout.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	clipped := make([][]string, len(rows))
	for r, row := range rows {
		clipped[r] = make([]string, len(headers))
		for i := range headers {
			var cell string
			if i < len(row) {
				cell = TruncateString(row[i], MaxCellWidth)
			}
			clipped[r][i] = cell
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	rule := make([]string, len(headers))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeRow(rule)
	for _, row := range clipped {
		writeRow(row)
	}
	return b.String()
}
