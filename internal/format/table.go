package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"rera-portal/internal/record"

	"github.com/charmbracelet/x/ansi"
)

// MaxCellWidth bounds a table cell; longer values are truncated with an ellipsis.
const MaxCellWidth = 40

// WriteTable writes v as aligned plain text. Section tables render with their
// number and action columns; lists of objects use the union of their keys as
// columns; a single object renders as key/value pairs.
func WriteTable(w io.Writer, v any) error {
	switch t := v.(type) {
	case record.Table:
		return writeRecordTable(w, t)
	case *record.Table:
		if t == nil {
			return nil
		}
		return writeRecordTable(w, *t)
	case []record.Table:
		for i, tt := range t {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := writeRecordTable(w, tt); err != nil {
				return err
			}
		}
		return nil
	}

	x, err := generic(v)
	if err != nil {
		return err
	}
	switch t := x.(type) {
	case []any:
		return writeObjects(w, t)
	case map[string]any:
		keys := sortedKeys(t)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, cell(t[k])})
		}
		return writeGrid(w, []string{"KEY", "VALUE"}, rows)
	default:
		_, err := fmt.Fprintln(w, cell(t))
		return err
	}
}

func writeRecordTable(w io.Writer, t record.Table) error {
	if title := strings.TrimSpace(t.Title); title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	header := []string{"#"}
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	header = append(header, t.ActionColumn)

	if t.Empty() {
		if err := writeGrid(w, header, nil); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, t.Rows[0].Cells[0])
		return err
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := []string{strconv.Itoa(r.Number)}
		row = append(row, r.Cells...)
		row = append(row, fmt.Sprintf("%s %s", strings.Join(r.Actions, ","), r.ID))
		rows = append(rows, row)
	}
	return writeGrid(w, header, rows)
}

func writeObjects(w io.Writer, xs []any) error {
	if len(xs) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	seen := map[string]bool{}
	var cols []string
	for _, x := range xs {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		for _, k := range sortedKeys(m) {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	if len(cols) == 0 {
		rows := make([][]string, 0, len(xs))
		for _, x := range xs {
			rows = append(rows, []string{cell(x)})
		}
		return writeGrid(w, []string{"VALUE"}, rows)
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	rows := make([][]string, 0, len(xs))
	for _, x := range xs {
		m, _ := x.(map[string]any)
		row := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := m[c]; ok {
				row[i] = cell(v)
			}
		}
		rows = append(rows, row)
	}
	return writeGrid(w, header, rows)
}

func writeGrid(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	fit := func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		if ansi.StringWidth(s) > MaxCellWidth {
			s = ansi.Truncate(s, MaxCellWidth, "…")
		}
		return s
	}
	for i, h := range header {
		header[i] = fit(h)
		widths[i] = ansi.StringWidth(header[i])
	}
	for _, r := range rows {
		for i := range r {
			if i >= len(widths) {
				break
			}
			r[i] = fit(r[i])
			if n := ansi.StringWidth(r[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-ansi.StringWidth(c)))
			}
		}
		b.WriteByte('\n')
	}
	line(header)
	for _, r := range rows {
		line(r)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
