package record

import (
	"errors"
	"fmt"
)

var ErrUnknownSection = errors.New("unknown section")

// Registry holds one Section per schema, keyed by section name, so pages share
// a single generic container instead of declaring their own lists.
type Registry struct {
	order    []string
	sections map[string]*Section
}

func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{sections: map[string]*Section{}}
	for _, s := range schemas {
		if err := s.Check(); err != nil {
			return nil, err
		}
		if _, dup := r.sections[s.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate section %q", s.Name)
		}
		r.order = append(r.order, s.Name)
		r.sections[s.Name] = NewSection(s)
	}
	return r, nil
}

func (r *Registry) Section(name string) (*Section, error) {
	s, ok := r.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	return s, nil
}

// Names returns section names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Snapshot returns snapshots for the named sections, in the order given.
func (r *Registry) Snapshot(names ...string) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(names))
	for _, n := range names {
		s, err := r.Section(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s.Snapshot())
	}
	return out, nil
}

// SetHooks installs the same hooks on every section.
func (r *Registry) SetHooks(h Hooks) {
	for _, s := range r.sections {
		s.SetHooks(h)
	}
}
