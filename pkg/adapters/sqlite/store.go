// Package sqlite stores the note collection in a single SQLite table.
//
// It honours the same whole-collection contract as the file store: Load
// returns every row in position order and Save replaces every row in one
// transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/notepad/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL,
	content TEXT NOT NULL
)`

// Config holds the configuration for the SQLite store.
type Config struct {
	Path      string
	MustExist bool // parent directory must already exist
	ReadOnly  bool
	Logger    *slog.Logger
}

// Store implements core.Store on a SQLite database file.
// The connection is opened lazily so that Load on a missing database does
// not create it.
type Store struct {
	Path   string
	config Config

	mu        sync.Mutex
	db        *sql.DB
	lastLoad  *time.Time
	lastSave  *time.Time
	lastCount int
}

// New creates a new SQLite-backed store.
func New(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{Path: config.Path, config: config}
}

// Initialize ensures the parent directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.Path == "" {
		return errors.New("store path is empty")
	}
	dir := filepath.Dir(s.Path)
	if s.config.ReadOnly || s.config.MustExist {
		if _, err := os.Stat(dir); err != nil && !s.config.ReadOnly {
			return fmt.Errorf("store directory does not exist: %s", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("sqlite mkdir: %w", err)
	}
	return nil
}

// open returns the shared connection, creating database and schema on first use.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	dsn := s.Path + "?_pragma=busy_timeout(5000)"
	if s.config.ReadOnly {
		dsn = "file:" + s.Path + "?mode=ro&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if !s.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	s.db = db
	return db, nil
}

// Load returns all notes ordered by position.
// A database file that does not exist yet yields an empty collection.
func (s *Store) Load(ctx context.Context) (core.Collection, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		s.config.Logger.Debug("no notes database yet", "path", s.Path)
		s.record(&s.lastLoad, 0)
		return core.Collection{}, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, &core.StorageReadError{Path: s.Path, Err: err}
	}

	if s.config.ReadOnly {
		// Read-only connections never create the table.
		var tables int
		err := db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'notes'`).Scan(&tables)
		if err != nil {
			return nil, &core.StorageReadError{Path: s.Path, Err: fmt.Errorf("inspect schema: %w", err)}
		}
		if tables == 0 {
			s.record(&s.lastLoad, 0)
			return core.Collection{}, nil
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT id, content FROM notes ORDER BY position`)
	if err != nil {
		return nil, &core.StorageReadError{Path: s.Path, Err: fmt.Errorf("query notes: %w", err)}
	}
	defer rows.Close()

	notes := core.Collection{}
	for rows.Next() {
		var n core.Note
		if err := rows.Scan(&n.ID, &n.Content); err != nil {
			return nil, &core.StorageReadError{Path: s.Path, Err: fmt.Errorf("scan note: %w", err)}
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StorageReadError{Path: s.Path, Err: err}
	}

	s.record(&s.lastLoad, len(notes))
	return notes, nil
}

// Save replaces every row with c inside a single transaction.
// Any failure rolls back, leaving the previous collection in place.
func (s *Store) Save(ctx context.Context, c core.Collection) error {
	if s.config.ReadOnly {
		return &core.StorageWriteError{Path: s.Path, Err: core.ErrReadOnly}
	}

	if err := s.save(ctx, c); err != nil {
		return &core.StorageWriteError{Path: s.Path, Err: err}
	}

	s.config.Logger.Debug("notes written", "path", s.Path, "count", len(c))
	s.record(&s.lastSave, len(c))
	return nil
}

func (s *Store) save(ctx context.Context, c core.Collection) error {
	if _, err := os.Stat(filepath.Dir(s.Path)); err != nil {
		return err
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes (position, id, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range c {
		if _, err := stmt.ExecContext(ctx, i, n.ID, n.Content); err != nil {
			return fmt.Errorf("insert note %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database connection. Call on shutdown for clean exit.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) record(at **time.Time, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	*at = &now
	s.lastCount = count
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string     `json:"path"`
	ReadOnly  bool       `json:"read_only"`
	Open      bool       `json:"open"`
	LastLoad  *time.Time `json:"last_load,omitempty"`
	LastSave  *time.Time `json:"last_save,omitempty"`
	NoteCount int        `json:"note_count"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreState{
		Path:      s.Path,
		ReadOnly:  s.config.ReadOnly,
		Open:      s.db != nil,
		LastLoad:  s.lastLoad,
		LastSave:  s.lastSave,
		NoteCount: s.lastCount,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
