package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rera-portal/internal/catalog"
	"rera-portal/internal/portal"
	"rera-portal/internal/record"
)

func testSubmission() portal.Submission {
	return portal.Submission{
		ID:        "sub-test",
		Page:      "buildings",
		PageTitle: "Add Buildings",
		Project:   "SAMPLE",
		Form:      map[string]string{"buildingName": "Tower A", "totalFloors": "12"},
		Sections: []record.Snapshot{
			{
				Section: "building-units",
				Title:   "Apartment Types",
				Records: []record.Record{
					{ID: 2, Values: map[string]string{"floor": "1", "apartmentType": "2 | BHK", "saleableArea": "80"}},
				},
			},
			{Section: "litigations", Title: "Litigation List"},
		},
		SubmittedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestRenderSubmissionMarkdown_WithCatalogLabels(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	md, err := RenderSubmissionMarkdown(testSubmission(), RenderOptions{Catalog: cat})
	if err != nil {
		t.Fatalf("RenderSubmissionMarkdown: %v", err)
	}
	for _, want := range []string{
		"# Add Buildings",
		"- ID: sub-test",
		"- Submitted: 2026-02-03T04:05:06Z",
		"- Name: Tower A",
		"- Total Number Of Floors: 12",
		"## Apartment Types",
		"| # | Floor | Mortgage Area | Apartment Type |",
		`| 1 | 1 |  | 2 \| BHK | 80 |`,
		"## Litigation List",
		"_No Litigations Added._",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestRenderSubmissionMarkdown_WithoutCatalogUsesFieldNames(t *testing.T) {
	t.Parallel()

	md, err := RenderSubmissionMarkdown(testSubmission(), RenderOptions{})
	if err != nil {
		t.Fatalf("RenderSubmissionMarkdown: %v", err)
	}
	if !strings.Contains(md, "- buildingName: Tower A") {
		t.Fatalf("expected raw field name, got:\n%s", md)
	}
	if !strings.Contains(md, "| # | apartmentType | floor | saleableArea |") {
		t.Fatalf("expected sorted raw columns, got:\n%s", md)
	}
	if !strings.Contains(md, "_"+record.DefaultPlaceholder+"_") {
		t.Fatalf("expected default placeholder, got:\n%s", md)
	}
}

func TestRenderSubmissionMarkdown_EscapesValues(t *testing.T) {
	t.Parallel()

	sub := testSubmission()
	sub.Form["buildingName"] = "*Tower* [A](b) `c`"
	sub.Sections[0].Records[0].Values["apartmentType"] = "_2BHK_"
	md, err := RenderSubmissionMarkdown(sub, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderSubmissionMarkdown: %v", err)
	}
	if !strings.Contains(md, "- buildingName: \\*Tower\\* \\[A\\](b) \\`c\\`") {
		t.Fatalf("expected escaped form value, got:\n%s", md)
	}
	if !strings.Contains(md, `| \_2BHK\_ |`) {
		t.Fatalf("expected escaped cell, got:\n%s", md)
	}

	page, err := RenderSubmissionHTML(sub, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderSubmissionHTML: %v", err)
	}
	if strings.Contains(page, "<em>") || strings.Contains(page, "<a href") || strings.Contains(page, "<code>") {
		t.Fatalf("values were rendered as markdown:\n%s", page)
	}
}

func TestRenderSubmissionHTML_EscapesRawHTML(t *testing.T) {
	t.Parallel()

	sub := testSubmission()
	sub.Form["buildingName"] = "<script>alert(1)</script>"
	page, err := RenderSubmissionHTML(sub, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderSubmissionHTML: %v", err)
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("raw html leaked into export:\n%s", page)
	}
	if !strings.Contains(page, "<table>") || !strings.Contains(page, "<title>Add Buildings</title>") {
		t.Fatalf("expected table and title in html:\n%s", page)
	}
}

func TestWriteSubmission_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteSubmission(testSubmission(), dir, WriteOptions{HTML: true})
	if err != nil {
		t.Fatalf("WriteSubmission: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected md and html, got %v", res.Written)
	}
	mdPath := filepath.Join(dir, "submissions", "sub-test.md")
	if res.Written[0] != mdPath {
		t.Fatalf("unexpected path %q", res.Written[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "submissions", "sub-test.html")); err != nil {
		t.Fatalf("expected html file: %v", err)
	}

	if _, err := WriteSubmission(testSubmission(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if _, err := WriteSubmission(testSubmission(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteSubmission_RejectsPathLikeID(t *testing.T) {
	t.Parallel()

	sub := testSubmission()
	sub.ID = "../escape"
	if _, err := WriteSubmission(sub, t.TempDir(), WriteOptions{}); err == nil {
		t.Fatalf("expected invalid id error")
	}
}
