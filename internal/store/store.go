package store

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Store is a data directory holding the submission log.
type Store struct {
	Dir    string
	Logger *slog.Logger
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(filepath.Clean(s.Dir), 0o755)
}

// DBPath is the sqlite file backing the submission log.
func (s Store) DBPath() string {
	return filepath.Join(filepath.Clean(s.Dir), "submissions.sqlite")
}

func (s Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
