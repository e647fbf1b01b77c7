package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rera-portal/internal/record"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type sectionSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Fields      int    `json:"fields"`
	Required    int    `json:"required"`
	Placeholder string `json:"placeholder"`
}

type fillFailure struct {
	Draft int    `json:"draft"`
	Error string `json:"error"`
}

type fillResult struct {
	Committed []record.ID   `json:"committed"`
	Removed   []record.ID   `json:"removed"`
	Failed    []fillFailure `json:"failed"`
	Table     record.Table  `json:"table"`
}

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Repeating record sections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]sectionSummary, 0, len(c.Sections))
			for _, s := range c.Sections {
				req := 0
				for _, f := range s.Fields {
					if f.Required {
						req++
					}
				}
				placeholder := s.Placeholder
				if strings.TrimSpace(placeholder) == "" {
					placeholder = record.DefaultPlaceholder
				}
				out = append(out, sectionSummary{Name: s.Name, Title: s.Title, Fields: len(s.Fields), Required: req, Placeholder: placeholder})
			}
			return writeOut(cmd, app, out, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a section schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := c.Section(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, s, s.Fields)
		},
	})

	cmd.AddCommand(newSectionsFillCmd(app))
	return cmd
}

func newSectionsFillCmd(app *App) *cobra.Command {
	var file string
	var removes []string
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "fill <name>",
		Short: "Commit drafts into a section, then apply removals and print the table",
		Long: strings.TrimSpace(`
Reads a JSON or YAML list of drafts (objects of field name to value). Each draft
is validated and committed in order; ids start at 1 and are never reused.
Invalid drafts are reported and skipped. --remove ids are applied afterwards;
removing an id that does not exist is a no-op.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.catalog()
			if err != nil {
				return writeErr(cmd, err)
			}
			schema, err := c.Section(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var drafts []map[string]string
			if strings.TrimSpace(file) != "" {
				drafts, err = readDrafts(cmd.InOrStdin(), file)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			sec := record.NewSection(schema)
			res := fillResult{Committed: []record.ID{}, Removed: []record.ID{}, Failed: []fillFailure{}}
			warn := color.New(color.FgRed)
			for i, d := range drafts {
				id, err := commitDraft(sec, d)
				if err != nil {
					res.Failed = append(res.Failed, fillFailure{Draft: i + 1, Error: err.Error()})
					warn.Fprintf(cmd.ErrOrStderr(), "draft %d: %v\n", i+1, err)
					continue
				}
				res.Committed = append(res.Committed, id)
			}
			for _, raw := range removes {
				id, err := record.ParseID(raw)
				if err != nil {
					return writeErr(cmd, err)
				}
				if sec.Remove(id) {
					res.Removed = append(res.Removed, id)
				}
			}
			res.Table = sec.Render()

			if err := writeOut(cmd, app, res, res.Table); err != nil {
				return err
			}
			if len(res.Failed) > 0 && !keepGoing {
				return fmt.Errorf("%d of %d drafts failed validation", len(res.Failed), len(drafts))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Drafts file (.json, .yaml, or - for stdin JSON)")
	cmd.Flags().StringArrayVar(&removes, "remove", nil, "Record id to remove after committing (repeatable)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Exit 0 even when some drafts fail validation")
	return cmd
}

// commitDraft loads values into the section draft and commits it. The draft
// is cleared on failure so one bad draft cannot leak into the next.
func commitDraft(sec *record.Section, values map[string]string) (record.ID, error) {
	sec.Cancel()
	if err := sec.Draft().Load(values); err != nil {
		return 0, err
	}
	id, err := sec.Commit()
	if err != nil {
		sec.Cancel()
		return 0, err
	}
	return id, nil
}

func readDrafts(stdin io.Reader, path string) ([]map[string]string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		err = dec.Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		return nil, errors.New(path + ": expected a list of drafts")
	}
	out := make([]map[string]string, 0, len(raw))
	for _, m := range raw {
		out = append(out, stringValues(m))
	}
	return out, nil
}

// stringValues flattens decoded scalars to the string form drafts hold.
func stringValues(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case json.Number:
			out[k] = t.String()
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case time.Time:
			out[k] = t.Format("2006-01-02")
		case bool:
			if t {
				out[k] = "Yes"
			} else {
				out[k] = "No"
			}
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
