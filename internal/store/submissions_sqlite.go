package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rera-portal/internal/portal"
	"rera-portal/internal/record"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.DBPath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI read while a CLI invocation writes; busy_timeout avoids
	// spurious "database is locked" errors between the two.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := s.migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			page TEXT NOT NULL,
			page_title TEXT NOT NULL,
			project TEXT NOT NULL,
			form_json TEXT,
			submitted_at_unixms INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_page ON submissions(page, submitted_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS submission_sections (
			submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			section TEXT NOT NULL,
			title TEXT NOT NULL,
			records_json TEXT NOT NULL,
			PRIMARY KEY(submission_id, position)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}

	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger().Debug("initialized submission log", "path", s.DBPath())
		if _, err := db.ExecContext(ctx, `INSERT INTO meta(k, v) VALUES('schema_version', ?)`, schemaVersion); err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `INSERT OR IGNORE INTO meta(k, v) VALUES('install_id', ?)`, uuid.NewString())
		return err
	case err != nil:
		return err
	case strings.TrimSpace(v) != schemaVersion:
		return fmt.Errorf("submission log %s: unsupported schema version %q", s.DBPath(), v)
	}
	return nil
}

// Submit satisfies portal.Submitter.
func (s Store) Submit(ctx context.Context, sub portal.Submission) (string, error) {
	return s.AppendSubmission(ctx, sub)
}

// AppendSubmission stores sub and returns its id. An empty sub.ID gets a
// generated one.
func (s Store) AppendSubmission(ctx context.Context, sub portal.Submission) (string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	id := strings.TrimSpace(sub.ID)
	if id == "" {
		id = "sub-" + uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	var formJSON sql.NullString
	if sub.Form != nil {
		b, err := json.Marshal(sub.Form)
		if err != nil {
			return "", err
		}
		formJSON = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO submissions(id, page, page_title, project, form_json, submitted_at_unixms, created_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, id, sub.Page, sub.PageTitle, sub.Project, formJSON, sub.SubmittedAt.UnixMilli(), time.Now().UTC().UnixMilli()); err != nil {
		return "", err
	}
	for i, snap := range sub.Sections {
		recs := snap.Records
		if recs == nil {
			recs = []record.Record{}
		}
		b, err := json.Marshal(recs)
		if err != nil {
			return "", err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submission_sections(submission_id, position, section, title, records_json)
			VALUES(?, ?, ?, ?, ?)
		`, id, i, snap.Section, snap.Title, string(b)); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.logger().Debug("submission stored", "id", id, "page", sub.Page, "sections", len(sub.Sections))
	return id, nil
}

type Filter struct {
	Page    string
	Project string
	// Limit <= 0 means no limit.
	Limit int
}

// ListSubmissions returns submission headers, newest first. Form values and
// section records are not loaded; use GetSubmission for those.
func (s Store) ListSubmissions(ctx context.Context, f Filter) ([]portal.Submission, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, page, page_title, project, submitted_at_unixms FROM submissions`
	var where []string
	var args []any
	if p := strings.TrimSpace(f.Page); p != "" {
		where = append(where, "page = ?")
		args = append(args, p)
	}
	if p := strings.TrimSpace(f.Project); p != "" {
		where = append(where, "project = ?")
		args = append(args, p)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY submitted_at_unixms DESC, created_at_unixms DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []portal.Submission{}
	for rows.Next() {
		var sub portal.Submission
		var ms int64
		if err := rows.Scan(&sub.ID, &sub.Page, &sub.PageTitle, &sub.Project, &ms); err != nil {
			return nil, err
		}
		sub.SubmittedAt = time.UnixMilli(ms).UTC()
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s Store) GetSubmission(ctx context.Context, id string) (portal.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return portal.Submission{}, errors.New("missing submission id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return portal.Submission{}, err
	}
	defer db.Close()

	var sub portal.Submission
	var formJSON sql.NullString
	var ms int64
	err = db.QueryRowContext(ctx, `
		SELECT id, page, page_title, project, form_json, submitted_at_unixms
		FROM submissions WHERE id = ?
	`, id).Scan(&sub.ID, &sub.Page, &sub.PageTitle, &sub.Project, &formJSON, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return portal.Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return portal.Submission{}, err
	}
	sub.SubmittedAt = time.UnixMilli(ms).UTC()
	if formJSON.Valid {
		if err := json.Unmarshal([]byte(formJSON.String), &sub.Form); err != nil {
			return portal.Submission{}, fmt.Errorf("submission %s form: %w", id, err)
		}
	}

	rows, err := db.QueryContext(ctx, `
		SELECT section, title, records_json FROM submission_sections
		WHERE submission_id = ? ORDER BY position ASC
	`, id)
	if err != nil {
		return portal.Submission{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var snap record.Snapshot
		var recJSON string
		if err := rows.Scan(&snap.Section, &snap.Title, &recJSON); err != nil {
			return portal.Submission{}, err
		}
		if err := json.Unmarshal([]byte(recJSON), &snap.Records); err != nil {
			return portal.Submission{}, fmt.Errorf("submission %s section %s: %w", id, snap.Section, err)
		}
		sub.Sections = append(sub.Sections, snap)
	}
	if err := rows.Err(); err != nil {
		return portal.Submission{}, err
	}
	return sub, nil
}

func (s Store) DeleteSubmission(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	s.logger().Debug("submission deleted", "id", id)
	return nil
}
