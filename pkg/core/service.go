package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Service is the boundary the presentation layer talks to.
// It never keeps its own copy of the collection between calls: every
// LoadNotes reads the store, every SaveNotes overwrites it.
type Service struct {
	store  Store
	logger *slog.Logger

	mu        sync.RWMutex
	loads     int
	saves     int
	failures  int
	lastError string
	lastSave  *time.Time
}

// NewService creates a new Service. A nil logger discards diagnostics.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// LoadNotes reads the whole collection.
// On a read failure the error is logged and returned together with an
// empty collection, so callers can proceed without crashing.
func (s *Service) LoadNotes(ctx context.Context) (Collection, error) {
	notes, err := s.store.Load(ctx)
	s.record(func() { s.loads++ }, err)
	if err != nil {
		s.logger.Error("error loading notes", "error", err)
		return Collection{}, err
	}
	if notes == nil {
		notes = Collection{}
	}
	s.logger.Debug("notes loaded", "count", len(notes))
	return notes, nil
}

// SaveNotes overwrites the persisted collection with notes.
// Failures are logged and returned; they are never swallowed.
func (s *Service) SaveNotes(ctx context.Context, notes Collection) error {
	err := s.store.Save(ctx, notes)
	s.record(func() {
		s.saves++
		if err == nil {
			now := time.Now()
			s.lastSave = &now
		}
	}, err)
	if err != nil {
		s.logger.Error("error saving notes", "error", err)
		return err
	}
	s.logger.Debug("notes saved", "count", len(notes))
	return nil
}

// Watch observes changes in the store if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx)
}

// Close releases resources held by the store, if it holds any.
func (s *Service) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) record(update func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update()
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	}
}
