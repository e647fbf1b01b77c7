package record

import (
	"errors"
	"fmt"
)

var ErrUnknownField = errors.New("unknown field")

// Draft is the uncommitted, in-progress record of a section (or the single
// record of a static page form).
type Draft struct {
	schema Schema
	values map[string]string
	dirty  bool
}

func NewDraft(s Schema) *Draft {
	return &Draft{schema: s, values: s.Defaults()}
}

func (d *Draft) Schema() Schema { return d.schema }

func (d *Draft) Set(field, value string) error {
	if _, ok := d.schema.Field(field); !ok {
		return fmt.Errorf("%s: %w: %q", d.schema.Name, ErrUnknownField, field)
	}
	d.values[field] = value
	d.dirty = true
	return nil
}

// Load replaces every field the map names. Unknown fields are rejected before
// anything changes.
func (d *Draft) Load(values map[string]string) error {
	for k := range values {
		if _, ok := d.schema.Field(k); !ok {
			return fmt.Errorf("%s: %w: %q", d.schema.Name, ErrUnknownField, k)
		}
	}
	for k, v := range values {
		d.values[k] = v
	}
	if len(values) > 0 {
		d.dirty = true
	}
	return nil
}

func (d *Draft) Get(field string) string { return d.values[field] }

// Values returns a copy of the draft.
func (d *Draft) Values() map[string]string { return cloneValues(d.values) }

// Dirty reports whether the draft was edited since the last reset.
func (d *Draft) Dirty() bool { return d.dirty }

func (d *Draft) Validate() error { return d.schema.Validate(d.values) }

// Reset restores every field to its schema default.
func (d *Draft) Reset() {
	d.values = d.schema.Defaults()
	d.dirty = false
}
