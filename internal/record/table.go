package record

const ActionRemove = "remove"

type Column struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// Row is one line of a rendered section. Number is derived from position and
// shifts when earlier rows are removed; ID does not.
type Row struct {
	Number      int      `json:"number,omitempty"`
	ID          ID       `json:"id,omitempty"`
	Cells       []string `json:"cells"`
	Actions     []string `json:"actions,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Table is the read-only projection of a section.
type Table struct {
	Section      string   `json:"section"`
	Title        string   `json:"title"`
	Columns      []Column `json:"columns"`
	ActionColumn string   `json:"actionColumn"`
	Rows         []Row    `json:"rows"`
}

// Empty reports whether the table shows only the placeholder row.
func (t Table) Empty() bool {
	return len(t.Rows) == 1 && t.Rows[0].Placeholder
}

// Render projects the collection. An empty collection yields exactly one
// placeholder row.
func (s *Section) Render() Table {
	fields := s.schema.ProjectedFields()
	t := Table{
		Section:      s.schema.Name,
		Title:        s.schema.Title,
		ActionColumn: "Action",
	}
	for _, f := range fields {
		t.Columns = append(t.Columns, Column{Field: f.Name, Label: f.Label})
	}
	if s.coll.Len() == 0 {
		t.Rows = []Row{{Cells: []string{s.schema.placeholder()}, Placeholder: true}}
		return t
	}
	for i, r := range s.coll.records {
		cells := make([]string, 0, len(fields))
		for _, f := range fields {
			cells = append(cells, r.Values[f.Name])
		}
		t.Rows = append(t.Rows, Row{
			Number:  i + 1,
			ID:      r.ID,
			Cells:   cells,
			Actions: []string{ActionRemove},
		})
	}
	return t
}
