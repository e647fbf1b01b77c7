package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rera-portal/internal/portal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// pageInput is the file accepted by `rera submit`.
type pageInput struct {
	Project  string                      `json:"project" yaml:"project"`
	Form     map[string]any              `json:"form" yaml:"form"`
	Sections map[string][]map[string]any `json:"sections" yaml:"sections"`
}

func newSubmitCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit <page>",
		Short: "Save a page from a file (static form values + section records)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := app.newSession(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			in, err := readPageInput(cmd.InOrStdin(), file)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := fillPage(s, args[0], in); err != nil {
				return writeErr(cmd, err)
			}
			if p := strings.TrimSpace(in.Project); p != "" {
				app.Project = p
			}
			if err := app.applyProject(s); err != nil {
				return writeErr(cmd, err)
			}
			sub, err := s.Save(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sub, nil,
				"rera submissions show "+sub.ID,
				"rera submissions export "+sub.ID+" --to ./export",
			)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Page values file (.json, .yaml, or - for stdin JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readPageInput(stdin io.Reader, path string) (pageInput, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return pageInput{}, err
	}
	var in pageInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &in)
	default:
		// Numbers keep their literal text; float64 would print 25000000 as 2.5e+07.
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		err = dec.Decode(&in)
	}
	if err != nil {
		return pageInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// fillPage loads the form and commits section records. Sections must belong
// to the page; any invalid record aborts before anything is saved.
func fillPage(s *portal.Session, pageID string, in pageInput) error {
	page, err := s.Catalog().Page(pageID)
	if err != nil {
		return err
	}
	onPage := map[string]bool{}
	for _, name := range page.Sections {
		onPage[name] = true
	}
	for name := range in.Sections {
		if !onPage[name] {
			return fmt.Errorf("section %s is not on page %s", name, page.ID)
		}
	}
	// Page order keeps record ids deterministic across sections.
	for _, name := range page.Sections {
		sec, err := s.Section(name)
		if err != nil {
			return err
		}
		for i, d := range in.Sections[name] {
			if _, err := commitDraft(sec, stringValues(d)); err != nil {
				return fmt.Errorf("%s record %d: %w", name, i+1, err)
			}
		}
	}
	if len(in.Form) > 0 {
		d, ok := s.Form(page.ID)
		if !ok {
			return fmt.Errorf("page %s has no form", page.ID)
		}
		if err := d.Load(stringValues(in.Form)); err != nil {
			return err
		}
	}
	return nil
}
