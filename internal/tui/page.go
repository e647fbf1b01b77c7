package tui

import (
	"strings"

	"rera-portal/internal/record"

	"github.com/charmbracelet/bubbles/textinput"
)

// block is one editable area of a page: the static form or a section draft.
type block struct {
	title   string
	section *record.Section
	draft   *record.Draft
	inputs  []fieldInput
	// row is the selected table row (1-based), 0 when nothing is selected.
	row int
}

type fieldInput struct {
	field record.Field
	input textinput.Model
}

func newBlock(title string, sec *record.Section, d *record.Draft) *block {
	b := &block{title: title, section: sec, draft: d}
	for _, f := range d.Schema().Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldHint(f)
		ti.SetValue(d.Get(f.Name))
		b.inputs = append(b.inputs, fieldInput{field: f, input: ti})
	}
	if sec != nil && sec.Len() > 0 {
		b.row = 1
	}
	return b
}

func fieldHint(f record.Field) string {
	switch f.Kind {
	case record.KindChoice, record.KindYesNo:
		return strings.Join(f.Choices(), " / ") + "  (←/→)"
	case record.KindDate:
		return "YYYY-MM-DD"
	case record.KindNumber:
		return "0"
	case record.KindPincode:
		return "6 digits"
	case record.KindMobile:
		return "10 digits"
	default:
		return ""
	}
}

func (b *block) set(field, value string) error {
	if b.section != nil {
		return b.section.Set(field, value)
	}
	return b.draft.Set(field, value)
}

// sync copies draft values back into the inputs after a commit or cancel.
func (b *block) sync() {
	for i := range b.inputs {
		b.inputs[i].input.SetValue(b.draft.Get(b.inputs[i].field.Name))
	}
}

func (b *block) clampRow() {
	if b.section == nil {
		b.row = 0
		return
	}
	n := b.section.Len()
	switch {
	case n == 0:
		b.row = 0
	case b.row < 1:
		b.row = 1
	case b.row > n:
		b.row = n
	}
}

// cycleChoice steps a choice field through its options.
func (b *block) cycleChoice(i, delta int) bool {
	fi := &b.inputs[i]
	opts := fi.field.Choices()
	if len(opts) == 0 {
		return false
	}
	cur := -1
	for j, o := range opts {
		if strings.EqualFold(o, strings.TrimSpace(fi.input.Value())) {
			cur = j
			break
		}
	}
	next := 0
	if cur >= 0 {
		next = (cur + delta + len(opts)) % len(opts)
	} else if delta < 0 {
		next = len(opts) - 1
	}
	fi.input.SetValue(opts[next])
	fi.input.CursorEnd()
	_ = b.set(fi.field.Name, opts[next])
	return true
}
