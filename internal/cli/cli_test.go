package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustEnv(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: rera %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestPagesList_GuardedPage(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())

	env := mustEnv(t, "--dir", t.TempDir(), "pages", "list")
	pages, _ := env["data"].([]any)
	if len(pages) == 0 {
		t.Fatalf("expected pages, got %#v", env["data"])
	}
	found := false
	for _, p := range pages {
		m := p.(map[string]any)
		if m["id"] == "past-experience" {
			found = true
			if m["requires"] != "past-experience" {
				t.Fatalf("expected past-experience guard, got %#v", m)
			}
		}
	}
	if !found {
		t.Fatalf("past-experience page missing")
	}
}

func TestSectionsFill_RemoveKeepsIDsAndRenumbersRows(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	tmp := t.TempDir()
	drafts := writeFile(t, tmp, "lit.json", `[{"courtName": "High Court", "caseYear": 2021}, {"courtName": "District Court"}]`)

	env := mustEnv(t, "--dir", tmp, "sections", "fill", "litigations", "--file", drafts, "--remove", "1", "--remove", "7")
	data := env["data"].(map[string]any)
	if got := data["committed"].([]any); len(got) != 2 || got[0].(float64) != 1 || got[1].(float64) != 2 {
		t.Fatalf("unexpected committed ids %#v", got)
	}
	if got := data["removed"].([]any); len(got) != 1 || got[0].(float64) != 1 {
		t.Fatalf("absent id must be a silent no-op; removed=%#v", got)
	}
	rows := data["table"].(map[string]any)["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %#v", rows)
	}
	row := rows[0].(map[string]any)
	if row["number"].(float64) != 1 || row["id"].(float64) != 2 {
		t.Fatalf("expected District Court as row 1 with id 2; got %#v", row)
	}

	stdout, _, err := runCLI(t, []string{"--dir", tmp, "--format", "table", "sections", "fill", "litigations", "--file", drafts, "--remove", "1"})
	if err != nil {
		t.Fatalf("table fill: %v", err)
	}
	out := string(stdout)
	if !strings.HasPrefix(out, "Litigation List\n") || !strings.Contains(out, "District Court") || strings.Contains(out, "High Court") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestSectionsFill_EmptyShowsPlaceholder(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, []string{"--dir", t.TempDir(), "--format", "table", "sections", "fill", "litigations"})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !strings.HasSuffix(string(stdout), "No Litigations Added.\n") {
		t.Fatalf("expected placeholder row, got:\n%s", stdout)
	}
}

func TestSectionsFill_InvalidDraftsAreReported(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	tmp := t.TempDir()
	drafts := writeFile(t, tmp, "units.yaml", `
- {floor: "1", apartmentType: 2BHK, saleableArea: 80}
- {floor: "1", apartmentType: 3BHK}
- {floor: "9", apartmentType: 1BHK, saleableArea: 40}
`)

	stdout, stderr, err := runCLI(t, []string{"--dir", tmp, "sections", "fill", "building-units", "--file", drafts})
	if err == nil {
		t.Fatalf("expected failure exit when drafts fail")
	}
	if !strings.Contains(string(stderr), "draft 2") || !strings.Contains(string(stderr), "Saleable Area") {
		t.Fatalf("expected draft 2 missing-field report, got:\n%s", stderr)
	}
	if !strings.Contains(string(stderr), "draft 3") {
		t.Fatalf("expected draft 3 invalid-choice report, got:\n%s", stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("stdout should still be the envelope: %v\n%s", err, stdout)
	}
	committed := env["data"].(map[string]any)["committed"].([]any)
	if len(committed) != 1 {
		t.Fatalf("expected only the valid draft committed, got %#v", committed)
	}

	if _, _, err := runCLI(t, []string{"--dir", tmp, "sections", "fill", "building-units", "--file", drafts, "--keep-going"}); err != nil {
		t.Fatalf("--keep-going should exit cleanly: %v", err)
	}
}

func TestSubmit_ListShowExportDelete(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	dir := t.TempDir()
	tmp := t.TempDir()
	in := writeFile(t, tmp, "buildings.json", `{
  "form": {"buildingName": "Tower A", "totalFloors": 12},
  "sections": {"building-units": [{"floor": "1", "apartmentType": "2BHK", "saleableArea": "80"}]}
}`)

	env := mustEnv(t, "--dir", dir, "submit", "buildings", "--file", in)
	sub := env["data"].(map[string]any)
	id, _ := sub["id"].(string)
	if !strings.HasPrefix(id, "sub-") {
		t.Fatalf("expected generated id, got %#v", sub["id"])
	}
	if sub["project"] != "SAMPLE" {
		t.Fatalf("expected default project, got %#v", sub["project"])
	}

	list := mustEnv(t, "--dir", dir, "submissions", "list", "--page", "buildings")
	if xs := list["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected 1 submission, got %#v", xs)
	}

	show := mustEnv(t, "--dir", dir, "submissions", "show", id)
	form := show["data"].(map[string]any)["form"].(map[string]any)
	if form["totalFloors"] != "12" {
		t.Fatalf("expected form values stored as strings, got %#v", form)
	}

	out := t.TempDir()
	mustEnv(t, "--dir", dir, "submissions", "export", id, "--to", out, "--html")
	md, err := os.ReadFile(filepath.Join(out, "submissions", id+".md"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(md), "Tower A") || !strings.Contains(string(md), "2BHK") {
		t.Fatalf("unexpected export:\n%s", md)
	}
	if _, err := os.Stat(filepath.Join(out, "submissions", id+".html")); err != nil {
		t.Fatalf("expected html export: %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "submissions", "export", id, "--to", out}); err == nil {
		t.Fatalf("expected export to refuse overwriting")
	}

	mustEnv(t, "--dir", dir, "submissions", "delete", id)
	if _, _, err := runCLI(t, []string{"--dir", dir, "submissions", "show", id}); err == nil {
		t.Fatalf("expected show of deleted submission to fail")
	}
}

func TestSubmit_InvalidFormSavesNothing(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	dir := t.TempDir()
	in := writeFile(t, t.TempDir(), "cost.json", `{"form": {"landCostActual": "10"}}`)

	_, stderr, err := runCLI(t, []string{"--dir", dir, "submit", "project-cost", "--file", in})
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(string(stderr), "mandatory") {
		t.Fatalf("expected mandatory-fields message, got %q", stderr)
	}
	list := mustEnv(t, "--dir", dir, "submissions", "list")
	if xs, _ := list["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected nothing stored, got %#v", xs)
	}
}

func TestSubmit_PastExperienceNeedsSavedProfile(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	dir := t.TempDir()
	tmp := t.TempDir()
	past := writeFile(t, tmp, "past.json", `{"sections": {"past-projects": []}}`)

	_, stderr, err := runCLI(t, []string{"--dir", dir, "submit", "past-experience", "--file", past})
	if err == nil || !strings.Contains(string(stderr), "Past Experience") {
		t.Fatalf("expected guard error, got err=%v stderr=%q", err, stderr)
	}

	profile := writeFile(t, tmp, "profile.yaml", `
form:
  firstName: Rao
  lastName: Venkat
  pan: ABCDE1234F
  fatherName: Rao Subba
  aadhar: "123412341234"
  hasExperience: "Yes"
  houseNo: 1-2-3
  buildingName: Lake View
  streetName: Road No 1
  locality: Madhapur
  landmark: Metro
  district: Hyderabad
  pincode: "500081"
  mobile: "9876543210"
  officeNumber: "4023456789"
  email: owner@example.com
`)
	mustEnv(t, "--dir", dir, "submit", "profile", "--file", profile)
	mustEnv(t, "--dir", dir, "submit", "past-experience", "--file", past)
}

func TestSubmit_UnknownProjectRejected(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	in := writeFile(t, t.TempDir(), "lit.json", `{"project": "Nowhere", "sections": {"litigations": []}}`)
	if _, _, err := runCLI(t, []string{"--dir", t.TempDir(), "submit", "litigations", "--file", in}); err == nil {
		t.Fatalf("expected unknown project to be rejected")
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("RERA_CONFIG_DIR", cfgDir)

	mustEnv(t, "config", "set", "tui.glyphs", "ascii")
	if _, _, err := runCLI(t, []string{"config", "set", "tui.glyphs", "emoji"}); err == nil {
		t.Fatalf("expected invalid glyph set to fail")
	}
	env := mustEnv(t, "config", "show")
	data := env["data"].(map[string]any)
	if data["dataDir"] != filepath.Join(cfgDir, "data") {
		t.Fatalf("unexpected resolved data dir %#v", data["dataDir"])
	}
	cfg := data["config"].(map[string]any)
	if cfg["tui"].(map[string]any)["glyphs"] != "ascii" {
		t.Fatalf("expected glyphs saved, got %#v", cfg)
	}
}

func TestLogFile_ReceivesSaveLogs(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	tmp := t.TempDir()
	logPath := filepath.Join(tmp, "logs", "rera.log")
	in := writeFile(t, tmp, "lit.json", `{"sections": {"litigations": [{"courtName": "High Court"}]}}`)

	mustEnv(t, "--dir", tmp, "--log-file", logPath, "--log-level", "debug", "submit", "litigations", "--file", in)
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "page saved") || !strings.Contains(string(b), "submission stored") {
		t.Fatalf("expected save logs, got:\n%s", b)
	}
}

func TestDocs_RawTopic(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())

	env := mustEnv(t, "docs")
	topics := env["data"].(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics")
	}

	stdout, _, err := runCLI(t, []string{"docs", "pages", "--raw"})
	if err != nil {
		t.Fatalf("docs pages: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Pages") {
		t.Fatalf("expected raw markdown, got:\n%s", stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestSubmit_NumbersKeepTheirLiteralText(t *testing.T) {
	t.Setenv("RERA_CONFIG_DIR", t.TempDir())
	dir := t.TempDir()
	tmp := t.TempDir()
	cost := writeFile(t, tmp, "cost.json", `{"form": {"landCostEstimated": 25000000, "developmentCostEstimated": 1000000, "landCostActual": 1250000.75}}`)

	env := mustEnv(t, "--dir", dir, "submit", "project-cost", "--file", cost)
	id := env["data"].(map[string]any)["id"].(string)
	show := mustEnv(t, "--dir", dir, "submissions", "show", id)
	form := show["data"].(map[string]any)["form"].(map[string]any)
	if form["landCostEstimated"] != "25000000" || form["developmentCostEstimated"] != "1000000" || form["landCostActual"] != "1250000.75" {
		t.Fatalf("expected literal numbers, got %#v", form)
	}

	promoters := writeFile(t, tmp, "co.json", `{"sections": {"co-promoters": [{
  "promoterName": "Lake View Builders", "promoterType": "Company",
  "district": "Hyderabad", "mandal": "Serilingampally", "village": "Madhapur", "pincode": 500081,
  "contactPersonName": "Rao", "contactPersonDesignation": "Director",
  "mobileNumber": 9876543210, "emailId": "rao@example.com"
}]}}`)
	mustEnv(t, "--dir", dir, "submit", "co-promoters", "--file", promoters)
}
