package tui

import (
	"context"
	"strings"
	"testing"

	"rera-portal/internal/catalog"
	"rera-portal/internal/portal"
	"rera-portal/internal/record"
	"rera-portal/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (appModel, *store.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	st := &store.Store{Dir: t.TempDir()}
	s, err := portal.New(cat, portal.WithSubmitter(st))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return newAppModel(context.Background(), Options{Session: s, Store: st}), st
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "ctrl+a":
			msg = tea.KeyMsg{Type: tea.KeyCtrlA}
		case "ctrl+d":
			msg = tea.KeyMsg{Type: tea.KeyCtrlD}
		case "ctrl+e":
			msg = tea.KeyMsg{Type: tea.KeyCtrlE}
		case "ctrl+g":
			msg = tea.KeyMsg{Type: tea.KeyCtrlG}
		case "ctrl+n":
			msg = tea.KeyMsg{Type: tea.KeyCtrlN}
		case "ctrl+p":
			msg = tea.KeyMsg{Type: tea.KeyCtrlP}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mAny, _ := m.Update(msg)
		m = mAny.(appModel)
	}
	return m
}

func selectSidebar(t *testing.T, m *appModel, id string) {
	t.Helper()
	for i, it := range m.sidebar.Items() {
		if pi, ok := it.(pageItem); ok && pi.id == id {
			m.sidebar.Select(i)
			return
		}
	}
	t.Fatalf("sidebar has no entry %q", id)
}

func openPage(t *testing.T, m appModel, id string) appModel {
	t.Helper()
	m.pane = paneSidebar
	selectSidebar(t, &m, id)
	m = press(t, m, "enter")
	if m.modal != modalNone {
		t.Fatalf("unexpected modal opening %s: %q", id, m.modalBody)
	}
	if got := m.session.CurrentID(); got != id {
		t.Fatalf("expected current page %q, got %q", id, got)
	}
	return m
}

func TestGuard_BlockedPageShowsNoticeAndKeepsCurrentPage(t *testing.T) {
	m, _ := newTestModel(t)
	m = openPage(t, m, "litigations")

	m.pane = paneSidebar
	selectSidebar(t, &m, "past-experience")
	m = press(t, m, "enter")
	if m.modal != modalGuard {
		t.Fatalf("expected guard modal, got %v", m.modal)
	}
	if !strings.Contains(m.modalBody, "Past Experience") {
		t.Fatalf("unexpected guard body %q", m.modalBody)
	}
	if got := m.session.CurrentID(); got != "litigations" {
		t.Fatalf("guard must not change the page; got %q", got)
	}

	// Stay.
	m = press(t, m, "tab", "enter")
	if m.modal != modalNone || m.session.CurrentID() != "litigations" {
		t.Fatalf("expected to stay on litigations; modal=%v page=%q", m.modal, m.session.CurrentID())
	}

	// Go to profile.
	m.pane = paneSidebar
	selectSidebar(t, &m, "past-experience")
	m = press(t, m, "enter", "enter")
	if m.modal != modalNone || m.session.CurrentID() != "profile" {
		t.Fatalf("expected profile page; modal=%v page=%q", m.modal, m.session.CurrentID())
	}
}

func TestSection_AppendValidatesAndResetsDraft(t *testing.T) {
	m, _ := newTestModel(t)
	m = openPage(t, m, "buildings")
	if len(m.blocks) != 2 || m.blocks[1].section == nil {
		t.Fatalf("expected form + units blocks, got %d", len(m.blocks))
	}
	m = press(t, m, "ctrl+n")
	units := m.blocks[1].section

	m = press(t, m, "ctrl+a")
	if m.modal != modalNotice {
		t.Fatalf("expected validation notice")
	}
	if !strings.Contains(m.modalBody, "mandatory") {
		t.Fatalf("expected mandatory fields message, got %q", m.modalBody)
	}
	if units.Len() != 0 {
		t.Fatalf("failed append must not add a row")
	}
	m = press(t, m, "esc")
	if m.modal != modalNone {
		t.Fatalf("expected notice to close")
	}

	// floor (choice) -> isMortgaged -> apartmentType -> saleableArea
	m = press(t, m, "right", "tab", "tab", "2BHK", "tab", "80", "ctrl+a")
	if m.modal != modalNone {
		t.Fatalf("unexpected modal: %q", m.modalBody)
	}
	if units.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", units.Len())
	}
	r, _ := units.At(1)
	if r.Get("floor") != "1" || r.Get("apartmentType") != "2BHK" || r.Get("saleableArea") != "80" {
		t.Fatalf("unexpected row values: %#v", r.Values)
	}
	if got := units.Draft().Get("apartmentType"); got != "" {
		t.Fatalf("expected draft reset, got %q", got)
	}
	if got := m.blocks[1].inputs[2].input.Value(); got != "" {
		t.Fatalf("expected input cleared after append, got %q", got)
	}
	if got := units.Draft().Get("isMortgaged"); got != "No" {
		t.Fatalf("expected default restored, got %q", got)
	}
	if m.focus != 0 {
		t.Fatalf("expected focus back on the first field, got %d", m.focus)
	}
}

func TestSection_RemoveSelectedRowKeepsOtherIDs(t *testing.T) {
	m, _ := newTestModel(t)
	m = openPage(t, m, "litigations")
	lit := m.blocks[0].section

	m = press(t, m, "High Court", "ctrl+a", "District Court", "ctrl+a")
	if lit.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", lit.Len())
	}
	if m.blocks[0].row != 2 {
		t.Fatalf("expected newest row selected, got %d", m.blocks[0].row)
	}

	m = press(t, m, "up", "ctrl+d")
	if lit.Len() != 1 {
		t.Fatalf("expected 1 row after remove, got %d", lit.Len())
	}
	r, _ := lit.At(1)
	if r.ID != record.ID(2) || r.Get("courtName") != "District Court" {
		t.Fatalf("expected District Court with id 2 in row 1; got %+v", r)
	}

	m = press(t, m, "ctrl+d")
	if lit.Len() != 0 || m.blocks[0].row != 0 {
		t.Fatalf("expected empty section with no selection; len=%d row=%d", lit.Len(), m.blocks[0].row)
	}
	if !strings.Contains(renderTable(lit.Render(), 80, 0), "No Litigations Added.") {
		t.Fatalf("expected placeholder row in rendered table")
	}
	// Nothing selected: remove is a no-op.
	m = press(t, m, "ctrl+d")
	if lit.Len() != 0 {
		t.Fatalf("remove with no selection changed the section")
	}
}

func TestEditKeyReportsUnsupported(t *testing.T) {
	m, _ := newTestModel(t)
	m = openPage(t, m, "litigations")
	m = press(t, m, "ctrl+e")
	if m.status != "editing rows is not supported" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSave_StoresSubmissionAndListsIt(t *testing.T) {
	m, st := newTestModel(t)
	m = openPage(t, m, "litigations")
	m = press(t, m, "High Court", "ctrl+a", "ctrl+s")
	if m.modal != modalNone {
		t.Fatalf("unexpected modal: %q", m.modalBody)
	}
	if !strings.HasPrefix(m.status, "Saved ") {
		t.Fatalf("unexpected status %q", m.status)
	}

	subs, err := st.ListSubmissions(context.Background(), store.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 || subs[0].Page != "litigations" {
		t.Fatalf("expected one litigations submission, got %+v", subs)
	}
	// Save keeps the rows.
	if m.blocks[0].section.Len() != 1 {
		t.Fatalf("save must not clear the section")
	}

	m.pane = paneSidebar
	selectSidebar(t, &m, submissionsEntry)
	m = press(t, m, "enter")
	if m.view != viewSubmissions || len(m.subs.Items()) != 1 {
		t.Fatalf("expected submissions view with 1 item; view=%v items=%d", m.view, len(m.subs.Items()))
	}
	m = press(t, m, "enter")
	if m.view != viewSubmission || m.openSub == nil || len(m.openSub.Sections) != 1 {
		t.Fatalf("expected open submission with sections")
	}
	if !strings.Contains(m.submissionMarkdown(), "High Court") {
		t.Fatalf("expected record in rendered submission")
	}

	m = press(t, m, "esc", "ctrl+d", "tab", "enter")
	if m.modal != modalNone {
		t.Fatalf("expected delete modal to close")
	}
	if len(m.subs.Items()) != 0 {
		t.Fatalf("expected submission deleted, got %d", len(m.subs.Items()))
	}
}

func TestSave_InvalidFormShowsNoticeAndStoresNothing(t *testing.T) {
	m, st := newTestModel(t)
	m = openPage(t, m, "project-cost")
	m = press(t, m, "ctrl+s")
	if m.modal != modalNotice || !strings.Contains(m.modalBody, "Land Cost (Estimated)") {
		t.Fatalf("expected notice naming the missing field, got %v %q", m.modal, m.modalBody)
	}
	subs, err := st.ListSubmissions(context.Background(), store.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(subs))
	}
}

func TestSave_ProfileUnlocksPastExperience(t *testing.T) {
	m, _ := newTestModel(t)
	form, ok := m.session.Form("profile")
	if !ok {
		t.Fatalf("profile form missing")
	}
	if err := form.Load(map[string]string{
		"firstName":     "Rao",
		"lastName":      "Venkat",
		"pan":           "ABCDE1234F",
		"fatherName":    "Rao Subba",
		"aadhar":        "123412341234",
		"hasExperience": "Yes",
		"houseNo":       "1-2-3",
		"buildingName":  "Sai Residency",
		"streetName":    "Main Road",
		"locality":      "Madhapur",
		"landmark":      "Near Park",
		"district":      "Hyderabad",
		"pincode":       "500081",
		"mobile":        "9876543210",
		"officeNumber":  "0401234567",
		"email":         "promoter@example.com",
	}); err != nil {
		t.Fatalf("load: %v", err)
	}

	m = openPage(t, m, "profile")
	m = press(t, m, "ctrl+s")
	if m.modal != modalNone {
		t.Fatalf("unexpected modal: %q", m.modalBody)
	}
	for _, it := range m.sidebar.Items() {
		if pi := it.(pageItem); pi.id == "past-experience" && pi.locked {
			t.Fatalf("expected past-experience unlocked after saving the profile")
		}
	}
	m = openPage(t, m, "past-experience")
	if !strings.Contains(m.View(), "Past experience=Yes") {
		t.Fatalf("expected header to show past experience")
	}
}

func TestProjectKeyCyclesAddedProjects(t *testing.T) {
	m, _ := newTestModel(t)
	sec, err := m.session.Section(portal.ProjectSection)
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if err := sec.Set("projectName", "Green Meadows"); err != nil {
		t.Fatalf("set: %v", err)
	}
	sec.Append()

	m.pane = paneSidebar
	m = press(t, m, "p")
	if m.session.Project() != "Green Meadows" {
		t.Fatalf("expected added project selected, got %q", m.session.Project())
	}
	m = press(t, m, "p")
	if m.session.Project() != portal.DefaultProject {
		t.Fatalf("expected wrap to default project, got %q", m.session.Project())
	}
}
