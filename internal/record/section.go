package record

// Phase is the draft/commit state of a section.
type Phase int

const (
	PhaseComposing Phase = iota
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseCommitted:
		return "committed"
	default:
		return "composing"
	}
}

// Hooks observe section mutations. Both are optional and run synchronously.
// OnCommit runs while the section is in PhaseCommitted, before the draft resets.
type Hooks struct {
	OnCommit func(Record)
	OnRemove func(Record)
}

// Section is one repeating-record region of a page: a schema, the committed
// collection and the draft being composed.
type Section struct {
	schema Schema
	coll   *Collection
	draft  *Draft
	phase  Phase
	last   ID
	hooks  Hooks
}

// NewSection creates a section whose collection holds the schema's seed rows.
func NewSection(s Schema) *Section {
	sec := &Section{
		schema: s,
		coll:   NewCollection(),
		draft:  NewDraft(s),
	}
	for _, row := range s.Seed {
		v := s.Defaults()
		for k, val := range row {
			v[k] = val
		}
		sec.coll.Append(v)
	}
	return sec
}

func (s *Section) Name() string   { return s.schema.Name }
func (s *Section) Schema() Schema { return s.schema }
func (s *Section) Draft() *Draft  { return s.draft }
func (s *Section) Phase() Phase   { return s.phase }
func (s *Section) Len() int       { return s.coll.Len() }

// LastCommitted is the id returned by the most recent successful append, or 0.
func (s *Section) LastCommitted() ID { return s.last }

func (s *Section) Records() []Record { return s.coll.Records() }

func (s *Section) Record(id ID) (Record, bool) { return s.coll.Get(id) }

// Position is the displayed row number of id (1-based), or 0 when absent.
func (s *Section) Position(id ID) int { return s.coll.Position(id) }

func (s *Section) At(row int) (Record, bool) { return s.coll.At(row) }

func (s *Section) SetHooks(h Hooks) { s.hooks = h }

// Set edits one draft field.
func (s *Section) Set(field, value string) error {
	if err := s.draft.Set(field, value); err != nil {
		return err
	}
	s.phase = PhaseComposing
	return nil
}

// Append moves the current draft to the tail of the collection and resets the
// draft. It does not validate; use Commit for the checked path.
func (s *Section) Append() ID {
	id := s.coll.Append(s.draft.values)
	s.last = id
	s.phase = PhaseCommitted
	if s.hooks.OnCommit != nil {
		if r, ok := s.coll.Get(id); ok {
			s.hooks.OnCommit(r)
		}
	}
	s.draft.Reset()
	s.phase = PhaseComposing
	return id
}

// Commit validates the draft and appends it. On failure nothing changes: the
// collection, the draft and the phase are left as they were.
func (s *Section) Commit() (ID, error) {
	if err := s.draft.Validate(); err != nil {
		return 0, err
	}
	return s.Append(), nil
}

// Cancel discards the draft.
func (s *Section) Cancel() {
	s.draft.Reset()
	s.phase = PhaseComposing
}

// Remove deletes the committed record with id. Unknown ids are a no-op.
func (s *Section) Remove(id ID) bool {
	r, ok := s.coll.Get(id)
	if !ok {
		return false
	}
	s.coll.Remove(id)
	if s.hooks.OnRemove != nil {
		s.hooks.OnRemove(r)
	}
	return true
}

// Snapshot is the value handed to a page's Save action.
type Snapshot struct {
	Section string   `json:"section"`
	Title   string   `json:"title"`
	Records []Record `json:"records"`
}

func (s *Section) Snapshot() Snapshot {
	return Snapshot{Section: s.schema.Name, Title: s.schema.Title, Records: s.coll.Records()}
}
