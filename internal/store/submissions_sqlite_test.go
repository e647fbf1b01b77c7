package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"rera-portal/internal/portal"
	"rera-portal/internal/record"
)

func sampleSubmission(page string, at time.Time) portal.Submission {
	return portal.Submission{
		Page:      page,
		PageTitle: "Add Building",
		Project:   "SAMPLE",
		Form:      map[string]string{"buildingName": "Tower A"},
		Sections: []record.Snapshot{
			{
				Section: "building-units",
				Title:   "Units",
				Records: []record.Record{
					{ID: 1, Values: map[string]string{"apartmentType": "2BHK", "numberOfApartments": "10"}},
					{ID: 3, Values: map[string]string{"apartmentType": "3BHK", "numberOfApartments": "4"}},
				},
			},
			{Section: "amenities", Title: "Amenities"},
		},
		SubmittedAt: at,
	}
}

func TestSubmissions_SubmitAndGet(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := s.AppendSubmission(ctx, sampleSubmission("buildings", at))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == "" {
		t.Fatalf("expected id")
	}

	got, err := s.GetSubmission(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id || got.Page != "buildings" || got.Project != "SAMPLE" {
		t.Fatalf("unexpected header: %+v", got)
	}
	if !got.SubmittedAt.Equal(at) {
		t.Fatalf("expected submitted at %v, got %v", at, got.SubmittedAt)
	}
	if got.Form["buildingName"] != "Tower A" {
		t.Fatalf("unexpected form: %#v", got.Form)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got.Sections))
	}
	units := got.Sections[0]
	if units.Section != "building-units" || len(units.Records) != 2 {
		t.Fatalf("unexpected units section: %+v", units)
	}
	if units.Records[0].ID != 1 || units.Records[1].ID != 3 {
		t.Fatalf("expected ids 1,3 preserved; got %d,%d", units.Records[0].ID, units.Records[1].ID)
	}
	if got.Sections[1].Section != "amenities" || len(got.Sections[1].Records) != 0 {
		t.Fatalf("unexpected empty section: %+v", got.Sections[1])
	}
}

func TestSubmissions_ListNewestFirstAndFilter(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, page := range []string{"buildings", "litigations", "buildings"} {
		if _, err := s.Submit(ctx, sampleSubmission(page, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	all, err := s.ListSubmissions(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if !all[0].SubmittedAt.After(all[1].SubmittedAt) || !all[1].SubmittedAt.After(all[2].SubmittedAt) {
		t.Fatalf("expected newest first: %v %v %v", all[0].SubmittedAt, all[1].SubmittedAt, all[2].SubmittedAt)
	}
	if all[0].Sections != nil || all[0].Form != nil {
		t.Fatalf("list should only return headers")
	}

	bs, err := s.ListSubmissions(ctx, Filter{Page: "buildings", Limit: 1})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(bs) != 1 || bs[0].Page != "buildings" || !bs[0].SubmittedAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected filtered list: %+v", bs)
	}

	none, err := s.ListSubmissions(ctx, Filter{Project: "OTHER"})
	if err != nil {
		t.Fatalf("list other project: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no submissions for OTHER, got %d", len(none))
	}
}

func TestSubmissions_Delete(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	id, err := s.Submit(ctx, sampleSubmission("buildings", time.Now()))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.DeleteSubmission(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSubmission(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteSubmission(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSubmissions_KeepsCallerID(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	sub := sampleSubmission("buildings", time.Now())
	sub.ID = "sub-fixed"
	id, err := s.Submit(ctx, sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id != "sub-fixed" {
		t.Fatalf("expected caller id, got %q", id)
	}
	if _, err := s.Submit(ctx, sub); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

func TestStore_EnsureRequiresDir(t *testing.T) {
	if err := (Store{}).Ensure(); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

// Store must satisfy the session's Save target.
var _ portal.Submitter = Store{}
