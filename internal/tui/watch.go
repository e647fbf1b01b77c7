package tui

import (
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type submissionsChangedMsg struct{}

// watchSubmissions reports writes to the submission log in dir. The returned
// channel is closed when the watcher is closed.
func watchSubmissions(dir string, logger *slog.Logger) (<-chan struct{}, func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	// The sqlite file and its -wal/-shm siblings come and go, so watch the directory.
	if err := w.Add(filepath.Clean(dir)); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(ev.Name), "submissions.sqlite") {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
					// A reload is already pending.
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("fsnotify error", "err", err)
			}
		}
	}()
	return out, w.Close, nil
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return submissionsChangedMsg{}
	}
}
