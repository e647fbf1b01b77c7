// Package catalog declares the portal's sections and pages.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rera-portal/internal/record"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrUnknownGuard = errors.New("unknown guard")
)

type PageKind string

const (
	PageForm    PageKind = "form"
	PageProfile PageKind = "profile"
)

// GuardPastExperience gates pages that only make sense for applicants who
// declared past experience on their profile.
const GuardPastExperience = "past-experience"

var knownGuards = map[string]bool{GuardPastExperience: true}

type Page struct {
	ID       string         `yaml:"id" json:"id"`
	Title    string         `yaml:"title" json:"title"`
	Group    string         `yaml:"group,omitempty" json:"group,omitempty"`
	Kind     PageKind       `yaml:"kind,omitempty" json:"kind,omitempty"`
	Note     string         `yaml:"note,omitempty" json:"note,omitempty"`
	Requires string         `yaml:"requires,omitempty" json:"requires,omitempty"`
	Form     *record.Schema `yaml:"form,omitempty" json:"form,omitempty"`
	Sections []string       `yaml:"sections,omitempty" json:"sections,omitempty"`
}

type Catalog struct {
	Sections []record.Schema `yaml:"sections" json:"sections"`
	Pages    []Page          `yaml:"pages" json:"pages"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := parse(builtin)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}

// Load returns the embedded catalog merged with every *.yaml/*.yml file found
// below extraDir (if set). Files are applied in lexical path order; a section
// or page with an existing name/id replaces the earlier definition in place.
func Load(extraDir string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	extraDir = strings.TrimSpace(extraDir)
	if extraDir == "" {
		return c, nil
	}
	fi, err := os.Stat(extraDir)
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("catalog dir %s: not a directory", extraDir)
	}
	matches, err := doublestar.Glob(os.DirFS(extraDir), "**/*.{yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("catalog dir %s: %w", extraDir, err)
	}
	sort.Strings(matches)
	for _, rel := range matches {
		path := filepath.Join(extraDir, filepath.FromSlash(rel))
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		overlay, err := parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c.merge(overlay)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	for i := range c.Pages {
		if c.Pages[i].Kind == "" {
			c.Pages[i].Kind = PageForm
		}
	}
	return &c, nil
}

func (c *Catalog) merge(o *Catalog) {
	for _, s := range o.Sections {
		replaced := false
		for i := range c.Sections {
			if c.Sections[i].Name == s.Name {
				c.Sections[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			c.Sections = append(c.Sections, s)
		}
	}
	for _, p := range o.Pages {
		replaced := false
		for i := range c.Pages {
			if c.Pages[i].ID == p.ID {
				c.Pages[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.Pages = append(c.Pages, p)
		}
	}
}

// Validate checks every schema and every page reference.
func (c *Catalog) Validate() error {
	sections := map[string]bool{}
	for _, s := range c.Sections {
		if err := s.Check(); err != nil {
			return err
		}
		if sections[s.Name] {
			return fmt.Errorf("duplicate section %q", s.Name)
		}
		sections[s.Name] = true
	}
	pages := map[string]bool{}
	profiles := 0
	for _, p := range c.Pages {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return errors.New("page without id")
		}
		if pages[id] {
			return fmt.Errorf("duplicate page %q", id)
		}
		pages[id] = true
		switch p.Kind {
		case PageForm:
		case PageProfile:
			profiles++
			if p.Form == nil {
				return fmt.Errorf("page %s: profile page needs a form", id)
			}
			if _, ok := p.Form.Field(ProfileExperienceField); !ok {
				return fmt.Errorf("page %s: profile form needs a %q field", id, ProfileExperienceField)
			}
		default:
			return fmt.Errorf("page %s: unknown kind %q", id, p.Kind)
		}
		if p.Requires != "" && !knownGuards[p.Requires] {
			return fmt.Errorf("page %s: %w %q", id, ErrUnknownGuard, p.Requires)
		}
		if p.Form != nil {
			if err := p.Form.Check(); err != nil {
				return fmt.Errorf("page %s: %w", id, err)
			}
		}
		for _, name := range p.Sections {
			if !sections[name] {
				return fmt.Errorf("page %s: %w: %s", id, record.ErrUnknownSection, name)
			}
		}
	}
	if profiles > 1 {
		return errors.New("more than one profile page")
	}
	return nil
}

// Profile form fields the session reads back when the profile is saved.
const (
	ProfileExperienceField = "hasExperience"
	ProfileTypeField       = "infoType"
)

func (c *Catalog) Page(id string) (Page, error) {
	for _, p := range c.Pages {
		if p.ID == id {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, id)
}

// ProfilePage returns the page of kind profile, if the catalog has one.
func (c *Catalog) ProfilePage() (Page, bool) {
	for _, p := range c.Pages {
		if p.Kind == PageProfile {
			return p, true
		}
	}
	return Page{}, false
}

func (c *Catalog) Section(name string) (record.Schema, error) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, nil
		}
	}
	return record.Schema{}, fmt.Errorf("%w: %s", record.ErrUnknownSection, name)
}

// NewRegistry creates one live section per catalog schema.
func (c *Catalog) NewRegistry() (*record.Registry, error) {
	return record.NewRegistry(c.Sections...)
}
