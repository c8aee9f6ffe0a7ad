// Package app holds the presentation-side state of notepad.
//
// App is the explicit state container owned by the top-level component (the
// shell or a one-shot command). Views never share mutable state: they read
// Snapshot copies and act through the App methods, which recompute the whole
// collection and hand it to the service for saving.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/notepad/pkg/core"
)

// Outcome describes what a submission did.
type Outcome int

const (
	// Ignored means the draft was blank: nothing changed, nothing was saved.
	Ignored Outcome = iota
	Added
	Edited
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Edited:
		return "edited"
	default:
		return "ignored"
	}
}

// State is a read-only view of the container.
type State struct {
	Notes     core.Collection
	Draft     string
	EditingID string // empty when not editing
}

// Editing reports whether a note is loaded into the draft for editing.
func (s State) Editing() bool {
	return s.EditingID != ""
}

// Notes is the persistence boundary used by App.
type Notes interface {
	LoadNotes(ctx context.Context) (core.Collection, error)
	SaveNotes(ctx context.Context, notes core.Collection) error
}

// App owns the current collection, the draft buffer and the editing marker.
type App struct {
	notes  Notes
	logger *slog.Logger
	newID  core.IDGenerator

	mu    sync.Mutex
	state State
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(a *App) { a.newID = gen }
}

// New creates an App with an empty collection.
func New(notes Notes, opts ...Option) *App {
	a := &App{
		notes:  notes,
		logger: slog.New(slog.DiscardHandler),
		newID:  core.NewID,
		state:  State{Notes: core.Collection{}},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot returns a copy of the current state.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.Notes = a.state.Notes.Clone()
	return s
}

// Load replaces the collection with the persisted one.
// A read failure leaves an empty collection; the error is returned so the
// caller can show it, but the application keeps running.
func (a *App) Load(ctx context.Context) error {
	notes, err := a.notes.LoadNotes(ctx)
	if err != nil {
		notes = core.Collection{}
	}

	a.mu.Lock()
	a.state.Notes = notes
	a.mu.Unlock()
	return err
}

// SetDraft replaces the draft buffer.
func (a *App) SetDraft(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Draft = text
}

// BeginEdit loads the note's content into the draft and marks it as being edited.
func (a *App) BeginEdit(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	note, ok := a.state.Notes.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNoteNotFound, id)
	}
	a.state.Draft = note.Content
	a.state.EditingID = id
	return nil
}

// CancelEdit clears the editing marker and the draft.
func (a *App) CancelEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Draft = ""
	a.state.EditingID = ""
}

// Submit commits the draft: it edits the marked note, or adds a new one.
//
// A blank draft is a no-op (Ignored, no save). Invalid UTF-8 is replaced
// with U+FFFD so the collection in memory is what the store can keep.
// Otherwise the editing marker
// and the draft are cleared, the new collection becomes current, and the
// whole collection is saved. A save failure is logged and returned; the
// in-memory collection keeps the change.
func (a *App) Submit(ctx context.Context) (Outcome, error) {
	a.mu.Lock()
	draft := strings.ToValidUTF8(a.state.Draft, "\uFFFD")
	if core.IsBlank(draft) {
		a.mu.Unlock()
		return Ignored, nil
	}

	var (
		next    core.Collection
		outcome Outcome
	)
	if id := a.state.EditingID; id != "" {
		edited, err := a.state.Notes.Edit(id, draft)
		if err != nil {
			a.mu.Unlock()
			return Ignored, fmt.Errorf("%w: %s", err, id)
		}
		next, outcome = edited, Edited
	} else {
		next, _ = a.state.Notes.Add(draft, a.newID)
		outcome = Added
	}

	a.state.Notes = next
	a.state.Draft = ""
	a.state.EditingID = ""
	a.mu.Unlock()

	return outcome, a.save(ctx, next)
}

// Add sets the draft to text and submits it as a new note.
// Any edit in progress is abandoned. Blank text changes nothing.
func (a *App) Add(ctx context.Context, text string) (Outcome, error) {
	if core.IsBlank(text) {
		return Ignored, nil
	}
	a.mu.Lock()
	a.state.Draft = text
	a.state.EditingID = ""
	a.mu.Unlock()
	return a.Submit(ctx)
}

// Edit replaces the content of the note with the given id.
// Blank text changes nothing, not even the draft or the editing marker.
func (a *App) Edit(ctx context.Context, id, text string) (Outcome, error) {
	if core.IsBlank(text) {
		return Ignored, nil
	}
	if err := a.BeginEdit(id); err != nil {
		return Ignored, err
	}
	a.SetDraft(text)
	return a.Submit(ctx)
}

// Delete removes the note with the given id and saves the result.
// Deleting the note being edited also abandons the edit.
func (a *App) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	next, err := a.state.Notes.Delete(id)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("%w: %s", err, id)
	}
	a.state.Notes = next
	if a.state.EditingID == id {
		a.state.EditingID = ""
		a.state.Draft = ""
	}
	a.mu.Unlock()

	return a.save(ctx, next)
}

// Resolve finds a note by exact id or by 1-based position in the list.
func (a *App) Resolve(ref string) (core.Note, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if note, ok := a.state.Notes.Find(ref); ok {
		return note, nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.state.Notes) {
		return a.state.Notes[n-1], nil
	}
	return core.Note{}, fmt.Errorf("%w: %s", core.ErrNoteNotFound, ref)
}

func (a *App) save(ctx context.Context, notes core.Collection) error {
	if err := a.notes.SaveNotes(ctx, notes); err != nil {
		a.logger.Warn("changes kept in memory only", "error", err)
		return err
	}
	return nil
}
