package publish

import (
	"bytes"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"rera-portal/internal/catalog"
	"rera-portal/internal/portal"
	"rera-portal/internal/record"
)

type RenderOptions struct {
	// Catalog supplies field labels and column order. Without it, raw field
	// names are used in sorted order.
	Catalog *catalog.Catalog
}

func RenderSubmissionMarkdown(sub portal.Submission, opt RenderOptions) (string, error) {
	if strings.TrimSpace(sub.ID) == "" {
		return "", errors.New("submission has no id")
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(sub.PageTitle)
	if title == "" {
		title = sub.Page
	}
	writeLn("# " + title)
	writeLn("")
	writeLn("- ID: " + sub.ID)
	writeLn("- Page: " + sub.Page)
	writeLn("- Project: " + sub.Project)
	if !sub.SubmittedAt.IsZero() {
		writeLn("- Submitted: " + sub.SubmittedAt.UTC().Format(time.RFC3339))
	}

	var page *catalog.Page
	if opt.Catalog != nil {
		if p, err := opt.Catalog.Page(sub.Page); err == nil {
			page = &p
		}
	}

	if len(sub.Form) > 0 {
		writeLn("")
		writeLn("## Details")
		writeLn("")
		var fields []record.Field
		if page != nil && page.Form != nil {
			fields = page.Form.Fields
		}
		for _, c := range columnsFor(fields, []map[string]string{sub.Form}) {
			v := strings.TrimSpace(sub.Form[c.Field])
			if v == "" {
				continue
			}
			writeLn("- " + c.Label + ": " + text(v))
		}
	}

	for _, snap := range sub.Sections {
		writeLn("")
		heading := strings.TrimSpace(snap.Title)
		if heading == "" {
			heading = snap.Section
		}
		writeLn("## " + heading)
		writeLn("")

		var fields []record.Field
		placeholder := record.DefaultPlaceholder
		if opt.Catalog != nil {
			if sch, err := opt.Catalog.Section(snap.Section); err == nil {
				fields = sch.Fields
				if p := strings.TrimSpace(sch.Placeholder); p != "" {
					placeholder = p
				}
			}
		}
		if len(snap.Records) == 0 {
			writeLn("_" + placeholder + "_")
			continue
		}

		values := make([]map[string]string, 0, len(snap.Records))
		for _, r := range snap.Records {
			values = append(values, r.Values)
		}
		cols := columnsFor(fields, values)

		head := []string{"#"}
		rule := []string{"---"}
		for _, c := range cols {
			head = append(head, text(c.Label))
			rule = append(rule, "---")
		}
		writeLn("| " + strings.Join(head, " | ") + " |")
		writeLn("| " + strings.Join(rule, " | ") + " |")
		for i, r := range snap.Records {
			row := []string{strconv.Itoa(i + 1)}
			for _, c := range cols {
				row = append(row, text(r.Values[c.Field]))
			}
			writeLn("| " + strings.Join(row, " | ") + " |")
		}
	}

	return buf.String(), nil
}

// columnsFor returns schema fields in order, followed by any extra keys found
// in the values (sorted) so nothing submitted is dropped from an export.
func columnsFor(fields []record.Field, values []map[string]string) []record.Column {
	seen := map[string]bool{}
	var cols []record.Column
	for _, f := range fields {
		seen[f.Name] = true
		label := strings.TrimSpace(f.Label)
		if label == "" {
			label = f.Name
		}
		cols = append(cols, record.Column{Field: f.Name, Label: label})
	}
	var extra []string
	for _, m := range values {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		cols = append(cols, record.Column{Field: k, Label: k})
	}
	return cols
}

func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mdEscaper backslash-escapes Markdown punctuation in user values.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"!", `\!`,
	"~", `\~`,
	"&", `\&`,
	"|", `\|`,
)

func text(s string) string {
	return mdEscaper.Replace(inline(s))
}
