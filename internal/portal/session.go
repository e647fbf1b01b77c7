// Package portal holds the application session: the applicant profile, the
// live sections, page navigation and the Save action.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"rera-portal/internal/catalog"
	"rera-portal/internal/record"
)

// DefaultProject is the project name used until one is added or selected.
const DefaultProject = "SAMPLE"

var ErrGuarded = errors.New("page is not available")

// GuardError reports a page whose precondition is not met.
type GuardError struct {
	Page  string
	Guard string
}

func (e *GuardError) Error() string {
	switch e.Guard {
	case catalog.GuardPastExperience:
		return "You have indicated 'No' for Past Experience in your profile. Change the selection to 'Yes' on the profile page to add details."
	default:
		return fmt.Sprintf("%s: %s", e.Page, e.Guard)
	}
}

func (e *GuardError) Unwrap() error { return ErrGuarded }

// Profile is the applicant state other pages depend on. It is only changed by
// saving the profile page.
type Profile struct {
	ApplicantType     string `json:"applicantType"`
	HasPastExperience bool   `json:"hasPastExperience"`
	Saved             bool   `json:"saved"`
}

type Submission struct {
	ID          string            `json:"id"`
	Page        string            `json:"page"`
	PageTitle   string            `json:"pageTitle"`
	Project     string            `json:"project"`
	Form        map[string]string `json:"form,omitempty"`
	Sections    []record.Snapshot `json:"sections,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Submitter receives the value produced by a page's Save action.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (string, error)
}

type Option func(*Session)

func WithSubmitter(s Submitter) Option { return func(ss *Session) { ss.submitter = s } }

func WithLogger(l *slog.Logger) Option { return func(ss *Session) { ss.logger = l } }

func WithProject(name string) Option {
	return func(ss *Session) {
		if n := strings.TrimSpace(name); n != "" {
			ss.project = n
		}
	}
}

func WithClock(now func() time.Time) Option { return func(ss *Session) { ss.now = now } }

// Session is the typed application context shared by every page. It is owned
// by a single event loop and is not safe for concurrent use.
type Session struct {
	catalog   *catalog.Catalog
	registry  *record.Registry
	forms     map[string]*record.Draft
	profile   Profile
	current   string
	project   string
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time
}

func New(c *catalog.Catalog, opts ...Option) (*Session, error) {
	if c == nil {
		return nil, errors.New("portal: nil catalog")
	}
	reg, err := c.NewRegistry()
	if err != nil {
		return nil, err
	}
	s := &Session{
		catalog:  c,
		registry: reg,
		forms:    map[string]*record.Draft{},
		project:  DefaultProject,
		now:      time.Now,
	}
	for _, p := range c.Pages {
		if p.Form != nil {
			s.forms[p.ID] = record.NewDraft(*p.Form)
		}
	}
	if len(c.Pages) > 0 {
		s.current = c.Pages[0].ID
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg.SetHooks(record.Hooks{
		OnCommit: func(r record.Record) { s.logger.Debug("record committed", "id", r.ID) },
		OnRemove: func(r record.Record) { s.logger.Debug("record removed", "id", r.ID) },
	})
	return s, nil
}

func (s *Session) Catalog() *catalog.Catalog  { return s.catalog }
func (s *Session) Registry() *record.Registry { return s.registry }
func (s *Session) Profile() Profile           { return s.profile }
func (s *Session) Project() string            { return s.project }
func (s *Session) CurrentID() string          { return s.current }

func (s *Session) Current() (catalog.Page, error) { return s.catalog.Page(s.current) }

// CanEnter checks the page's guard without navigating.
func (s *Session) CanEnter(pageID string) error {
	p, err := s.catalog.Page(pageID)
	if err != nil {
		return err
	}
	switch p.Requires {
	case "":
		return nil
	case catalog.GuardPastExperience:
		if !s.profile.HasPastExperience {
			return &GuardError{Page: p.ID, Guard: p.Requires}
		}
		return nil
	default:
		return &GuardError{Page: p.ID, Guard: p.Requires}
	}
}

// Enter makes pageID current. A failed guard leaves the current page unchanged.
func (s *Session) Enter(pageID string) error {
	if err := s.CanEnter(pageID); err != nil {
		s.logger.Info("page blocked", "page", pageID, "err", err)
		return err
	}
	s.current = pageID
	return nil
}

// Form returns the static form draft of a page, if it has one.
func (s *Session) Form(pageID string) (*record.Draft, bool) {
	d, ok := s.forms[pageID]
	return d, ok
}

func (s *Session) Section(name string) (*record.Section, error) { return s.registry.Section(name) }

// PageSections returns the live sections of a page in page order.
func (s *Session) PageSections(pageID string) ([]*record.Section, error) {
	p, err := s.catalog.Page(pageID)
	if err != nil {
		return nil, err
	}
	out := make([]*record.Section, 0, len(p.Sections))
	for _, name := range p.Sections {
		sec, err := s.registry.Section(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, nil
}
