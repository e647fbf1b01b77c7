package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"rera-portal/internal/portal"
	"rera-portal/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *portal.Session
	// Store backs the submissions view. Nil hides saved submissions.
	Store  *store.Store
	Logger *slog.Logger
	// Glyphs is the configured glyph set ("unicode" or "ascii").
	Glyphs string
}

func Run(ctx context.Context, opt Options) error {
	if opt.Session == nil {
		return errors.New("tui: nil session")
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opt.Glyphs)

	m := newAppModel(ctx, opt)
	if opt.Store != nil {
		if err := opt.Store.Ensure(); err != nil {
			return err
		}
		ch, closeWatch, err := watchSubmissions(opt.Store.Dir, opt.Logger)
		if err != nil {
			// Without a watcher the list is still reloadable with r.
			opt.Logger.Warn("submissions watcher unavailable", "err", err)
		} else {
			defer func() { _ = closeWatch() }()
			m.changes = ch
		}
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
