package record

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind controls how a draft value is checked before it is committed.
type FieldKind string

const (
	KindText      FieldKind = "text"
	KindMultiline FieldKind = "multiline"
	KindNumber    FieldKind = "number"
	KindDate      FieldKind = "date"
	KindChoice    FieldKind = "choice"
	KindYesNo     FieldKind = "yesno"
	KindEmail     FieldKind = "email"
	KindPhone     FieldKind = "phone"
	KindMobile    FieldKind = "mobile"
	KindPincode   FieldKind = "pincode"
)

func (k FieldKind) valid() bool {
	switch k {
	case KindText, KindMultiline, KindNumber, KindDate, KindChoice, KindYesNo, KindEmail, KindPhone, KindMobile, KindPincode:
		return true
	default:
		return false
	}
}

const DefaultPlaceholder = "No records found"

// Condition matches when another field of the same record holds Equals.
type Condition struct {
	Field  string `json:"field" yaml:"field"`
	Equals string `json:"equals" yaml:"equals"`
}

func (c Condition) matches(values map[string]string) bool {
	return strings.EqualFold(strings.TrimSpace(values[c.Field]), strings.TrimSpace(c.Equals))
}

type Field struct {
	Name         string     `json:"name" yaml:"name"`
	Label        string     `json:"label" yaml:"label"`
	Kind         FieldKind  `json:"kind" yaml:"kind"`
	Required     bool       `json:"required,omitempty" yaml:"required,omitempty"`
	RequiredWhen *Condition `json:"requiredWhen,omitempty" yaml:"requiredWhen,omitempty"`
	Options      []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Default      string     `json:"default,omitempty" yaml:"default,omitempty"`
}

// RequiredFor reports whether the field must be filled given the other
// values of the record.
func (f Field) RequiredFor(values map[string]string) bool {
	if f.Required {
		return true
	}
	return f.RequiredWhen != nil && f.RequiredWhen.matches(values)
}

// DisplayLabel is the label with the portal's mandatory marker appended.
func (f Field) DisplayLabel() string { return f.markLabel(f.Required) }

// DisplayLabelFor also marks conditionally required fields whose condition
// holds for values.
func (f Field) DisplayLabelFor(values map[string]string) string {
	return f.markLabel(f.RequiredFor(values))
}

func (f Field) markLabel(required bool) string {
	label := strings.TrimSpace(f.Label)
	if label == "" {
		label = f.Name
	}
	if required {
		return label + " *"
	}
	return label
}

func (f Field) options() []string {
	if f.Kind == KindYesNo && len(f.Options) == 0 {
		return []string{"Yes", "No"}
	}
	return f.Options
}

// Choices returns the allowed values for choice and yes/no fields.
func (f Field) Choices() []string {
	return append([]string(nil), f.options()...)
}

// Schema is the fixed shape of every record in one section.
type Schema struct {
	Name        string              `json:"name" yaml:"name"`
	Title       string              `json:"title" yaml:"title"`
	Fields      []Field             `json:"fields" yaml:"fields"`
	Columns     []string            `json:"columns,omitempty" yaml:"columns,omitempty"`
	Placeholder string              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Seed        []map[string]string `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Check reports structural problems in the schema itself.
func (s Schema) Check() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return errors.New("schema: missing name")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields", name)
	}
	seen := map[string]bool{}
	for i, f := range s.Fields {
		fn := strings.TrimSpace(f.Name)
		if fn == "" {
			return fmt.Errorf("schema %s: field %d has no name", name, i)
		}
		if seen[fn] {
			return fmt.Errorf("schema %s: duplicate field %q", name, fn)
		}
		seen[fn] = true
		if !f.Kind.valid() {
			return fmt.Errorf("schema %s: field %q has unknown kind %q", name, fn, f.Kind)
		}
		if f.Kind == KindChoice && len(f.Options) == 0 {
			return fmt.Errorf("schema %s: choice field %q has no options", name, fn)
		}
	}
	for _, f := range s.Fields {
		if f.RequiredWhen != nil && !seen[f.RequiredWhen.Field] {
			return fmt.Errorf("schema %s: field %q depends on unknown field %q", name, f.Name, f.RequiredWhen.Field)
		}
	}
	for _, c := range s.Columns {
		if !seen[c] {
			return fmt.Errorf("schema %s: column %q is not a field", name, c)
		}
	}
	for i, row := range s.Seed {
		for k := range row {
			if !seen[k] {
				return fmt.Errorf("schema %s: seed row %d sets unknown field %q", name, i, k)
			}
		}
	}
	return nil
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in declaration order.
func (s Schema) FieldNames() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

// ProjectedFields returns the fields shown as table columns.
func (s Schema) ProjectedFields() []Field {
	if len(s.Columns) == 0 {
		return append([]Field(nil), s.Fields...)
	}
	out := make([]Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		if f, ok := s.Field(c); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s Schema) placeholder() string {
	if p := strings.TrimSpace(s.Placeholder); p != "" {
		return p
	}
	return DefaultPlaceholder
}

// Defaults returns a fresh draft value holding every field's default.
func (s Schema) Defaults() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = f.Default
	}
	return out
}
