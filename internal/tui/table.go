package tui

import (
	"strconv"
	"strings"

	"rera-portal/internal/record"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const maxCellW = 28

// renderTable draws a section table within width cells. selected is the
// 1-based display row to highlight, 0 for none.
func renderTable(t record.Table, width, selected int) string {
	header := []string{"#"}
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	header = append(header, t.ActionColumn)

	var rows [][]string
	if !t.Empty() {
		for _, r := range t.Rows {
			row := []string{strconv.Itoa(r.Number)}
			row = append(row, r.Cells...)
			row = append(row, "ctrl+d")
			rows = append(rows, row)
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = min(xansi.StringWidth(h), maxCellW)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], min(xansi.StringWidth(c), maxCellW))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			c = xansi.Truncate(c, widths[i], "…")
			parts[i] = c + strings.Repeat(" ", widths[i]-xansi.StringWidth(c))
		}
		return xansi.Truncate(strings.Join(parts, " │ "), width, "…")
	}

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(colorChromeFg)
	selStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)

	out := []string{headStyle.Render(line(header))}
	out = append(out, styleMuted().Render(strings.Repeat(glyphHRule(), min(width, xansi.StringWidth(line(header))))))
	if t.Empty() {
		out = append(out, styleMuted().Render(t.Rows[0].Cells[0]))
		return strings.Join(out, "\n")
	}
	for i, r := range rows {
		l := line(r)
		if i+1 == selected {
			l = selStyle.Render(l)
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
