package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rowlist/internal/model"

	_ "modernc.org/sqlite"
)

const dbFileName = "rowlist.sqlite"

// ErrNotFound is returned (wrapped) when a list or row does not exist.
var ErrNotFound = errors.New("not found")

// Store persists lists and their rows in a SQLite database inside Dir.
// Each call opens its own connection so several processes (CLI, TUI) can
// share the directory.
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Path is the SQLite database file.
func (s Store) Path() string {
	return filepath.Join(s.Dir, dbFileName)
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("store: missing dir")
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", s.Path())
	if err != nil {
		return nil, err
	}
	// WAL allows one writer with concurrent readers; busy_timeout avoids
	// "database is locked" when the CLI writes while the TUI reads.
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
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", s.Path(), err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS list_rows (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			rank TEXT NOT NULL,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			height INTEGER NOT NULL DEFAULT 1,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rows_list_rank ON list_rows(list_id, rank);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			type TEXT NOT NULL,
			row_id TEXT NOT NULL DEFAULT '',
			payload_json TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_list ON events(list_id, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func unixMs(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromUnixMs(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// CreateList creates a list with a unique name.
func (s Store) CreateList(ctx context.Context, name string) (model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.List{}, errors.New("create list: missing name")
	}
	db, err := s.open(ctx)
	if err != nil {
		return model.List{}, err
	}
	defer db.Close()

	l := model.List{ID: newID("lst"), Name: name, CreatedAt: time.Now().UTC()}
	if _, err := db.ExecContext(ctx, `INSERT INTO lists(id, name, created_at_unixms) VALUES(?, ?, ?)`,
		l.ID, l.Name, unixMs(l.CreatedAt)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return model.List{}, fmt.Errorf("create list: %q already exists", name)
		}
		return model.List{}, err
	}
	if err := appendEvent(ctx, db, model.Event{ListID: l.ID, Type: model.EventListCreated, Payload: l}); err != nil {
		return model.List{}, err
	}
	return l, nil
}

func (s Store) Lists(ctx context.Context) ([]model.List, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rs, err := db.QueryContext(ctx, `SELECT id, name, created_at_unixms FROM lists ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []model.List
	for rs.Next() {
		var l model.List
		var ms int64
		if err := rs.Scan(&l.ID, &l.Name, &ms); err != nil {
			return nil, err
		}
		l.CreatedAt = fromUnixMs(ms)
		out = append(out, l)
	}
	return out, rs.Err()
}

// FindList resolves a list by id or by name.
func (s Store) FindList(ctx context.Context, ref string) (model.List, error) {
	ref = strings.TrimSpace(ref)
	db, err := s.open(ctx)
	if err != nil {
		return model.List{}, err
	}
	defer db.Close()
	return findList(ctx, db, ref)
}

func findList(ctx context.Context, db queryer, ref string) (model.List, error) {
	var l model.List
	var ms int64
	err := db.QueryRowContext(ctx, `SELECT id, name, created_at_unixms FROM lists WHERE id = ? OR name = ? LIMIT 1`, ref, ref).
		Scan(&l.ID, &l.Name, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return model.List{}, fmt.Errorf("list %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return model.List{}, err
	}
	l.CreatedAt = fromUnixMs(ms)
	return l, nil
}

// DeleteList removes a list and all of its rows.
func (s Store) DeleteList(ctx context.Context, ref string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := findList(ctx, db, strings.TrimSpace(ref))
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM list_rows WHERE list_id = ?`, l.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, l.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return appendEvent(ctx, db, model.Event{ListID: l.ID, Type: model.EventListDeleted, Payload: l})
}
