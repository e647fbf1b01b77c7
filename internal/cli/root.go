package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rera-portal/internal/catalog"
	"rera-portal/internal/format"
	"rera-portal/internal/portal"
	"rera-portal/internal/store"
	"rera-portal/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	CatalogDir string
	Project    string
	PrettyJSON bool
	Format     string
	LogFile    string
	LogLevel   string

	cfg      *store.Config
	logger   *slog.Logger
	logClose func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "rera",
		Short:        "RERA registration portal (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive portal
  rera

  # Commit records into a section and print its table
  rera sections fill building-units --file units.json --format table

  # Save a page from a file
  rera submit litigations --file litigations.json

  # Export a saved submission
  rera submissions export sub-... --to ./out --html
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logClose != nil {
			return app.logClose()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("RERA_DIR", ""), "Data directory holding the submission log (default: <config dir>/data)")
	cmd.PersistentFlags().StringVar(&app.CatalogDir, "catalog", envOr("RERA_CATALOG", ""), "Directory of extra section/page definitions (*.yaml)")
	cmd.PersistentFlags().StringVar(&app.Project, "project", envOr("RERA_PROJECT", ""), "Project name submissions are filed under")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("RERA_FORMAT", "json"), "Output format (json|edn|table)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("RERA_LOG_FILE", ""), "Append logs to this file (default: no logs)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newPagesCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newSubmitCmd(app))
	cmd.AddCommand(newSubmissionsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves config, data dir and logging. Precedence: flags, then
// environment (already folded into flag defaults), then config.json.
func (app *App) init() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg
	if strings.TrimSpace(app.Dir) == "" {
		d, err := store.DefaultDataDir(cfg)
		if err != nil {
			return err
		}
		app.Dir = d
	}
	if strings.TrimSpace(app.CatalogDir) == "" {
		app.CatalogDir = cfg.CatalogDir
	}
	if strings.TrimSpace(app.Project) == "" {
		app.Project = cfg.DefaultProject
	}
	if strings.TrimSpace(app.LogLevel) == "" {
		app.LogLevel = cfg.LogLevel
	}
	return app.setupLogger()
}

func (app *App) setupLogger() error {
	var level slog.Level
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	if strings.TrimSpace(app.LogFile) == "" {
		// The TUI owns the terminal, so logs only go to an explicit file.
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	path := filepath.Clean(app.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	app.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	app.logClose = f.Close
	return nil
}

func (app *App) store() *store.Store {
	return &store.Store{Dir: app.Dir, Logger: app.logger}
}

func (app *App) catalog() (*catalog.Catalog, error) {
	return catalog.Load(app.CatalogDir)
}

// newSession builds a session that saves into the store and starts from the
// most recently saved profile.
func (app *App) newSession(ctx context.Context) (*portal.Session, *store.Store, error) {
	c, err := app.catalog()
	if err != nil {
		return nil, nil, err
	}
	st := app.store()
	s, err := portal.New(c, portal.WithSubmitter(st), portal.WithLogger(app.logger))
	if err != nil {
		return nil, nil, err
	}
	if p, ok := c.ProfilePage(); ok {
		latest, err := st.ListSubmissions(ctx, store.Filter{Page: p.ID, Limit: 1})
		if err != nil {
			return nil, nil, err
		}
		if len(latest) == 1 {
			full, err := st.GetSubmission(ctx, latest[0].ID)
			if err != nil {
				return nil, nil, err
			}
			s.RestoreProfile(full.Form)
		}
	}
	return s, st, nil
}

// applyProject selects app.Project once the session's projects are known.
func (app *App) applyProject(s *portal.Session) error {
	if p := strings.TrimSpace(app.Project); p != "" && p != s.Project() {
		return s.SetProject(p)
	}
	return nil
}

func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, st, err := app.newSession(ctx)
	if err != nil {
		return err
	}
	// The project list grows as projects are added in the TUI; an unknown
	// configured project just leaves the default selected.
	if err := app.applyProject(s); err != nil {
		app.logger.Warn("configured project not available", "project", app.Project, "err", err)
	}
	glyphs := ""
	if app.cfg != nil && app.cfg.TUI != nil {
		glyphs = app.cfg.TUI.Glyphs
	}
	return tui.Run(ctx, tui.Options{Session: s, Store: st, Logger: app.logger, Glyphs: glyphs})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes the {"data": ...} envelope for json/edn. Table output
// renders view (or data when view is nil) without the envelope.
func writeOut(cmd *cobra.Command, app *App, data any, view any, hints ...string) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "table") {
		if view == nil {
			view = data
		}
		return format.WriteTable(cmd.OutOrStdout(), view)
	}
	env := map[string]any{"data": data}
	if len(hints) > 0 {
		env["_hints"] = hints
	}
	return format.Write(cmd.OutOrStdout(), env, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
