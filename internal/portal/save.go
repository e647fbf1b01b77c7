package portal

import (
	"context"
	"fmt"
	"strings"

	"rera-portal/internal/catalog"
)

// Save validates the page's static form and hands a submission to the
// submitter. Section collections are kept as they are. On a validation error
// nothing is submitted and nothing changes.
func (s *Session) Save(ctx context.Context, pageID string) (Submission, error) {
	p, err := s.catalog.Page(pageID)
	if err != nil {
		return Submission{}, err
	}
	if err := s.CanEnter(pageID); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		Page:        p.ID,
		PageTitle:   p.Title,
		Project:     s.project,
		SubmittedAt: s.now().UTC(),
	}
	if d, ok := s.forms[p.ID]; ok {
		if err := d.Validate(); err != nil {
			s.logger.Info("save rejected", "page", p.ID, "err", err)
			return Submission{}, err
		}
		sub.Form = d.Values()
	}
	snaps, err := s.registry.Snapshot(p.Sections...)
	if err != nil {
		return Submission{}, err
	}
	sub.Sections = snaps

	if s.submitter != nil {
		id, err := s.submitter.Submit(ctx, sub)
		if err != nil {
			return Submission{}, fmt.Errorf("save %s: %w", p.ID, err)
		}
		sub.ID = id
	}
	if p.Kind == catalog.PageProfile {
		s.applyProfile(sub.Form)
	}
	s.logger.Info("page saved", "page", p.ID, "id", sub.ID, "sections", len(sub.Sections))
	return sub, nil
}

func (s *Session) applyProfile(form map[string]string) {
	s.profile = Profile{
		ApplicantType:     strings.TrimSpace(form[catalog.ProfileTypeField]),
		HasPastExperience: strings.EqualFold(strings.TrimSpace(form[catalog.ProfileExperienceField]), "yes"),
		Saved:             true,
	}
}

// RestoreProfile applies a previously saved profile form, as if the profile
// page had just been saved with those values. Unknown fields are ignored.
func (s *Session) RestoreProfile(form map[string]string) {
	p, ok := s.catalog.ProfilePage()
	if !ok {
		return
	}
	if d, ok := s.forms[p.ID]; ok {
		for k, v := range form {
			_ = d.Set(k, v)
		}
	}
	s.applyProfile(form)
}
