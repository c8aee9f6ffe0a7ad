package core

import (
	"strings"

	"github.com/google/uuid"
)

// Note is the central entity of the domain.
// Its ID is assigned once at creation and never changes.
type Note struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// Collection is the ordered set of all notes and the unit of persistence.
// Insertion order is significant: it controls display order.
type Collection []Note

// IDGenerator produces identifiers for new notes.
type IDGenerator func() string

// NewID returns a random UUID (v4) string.
func NewID() string {
	return uuid.NewString()
}

// IsBlank reports whether text is empty once surrounding whitespace is removed.
// Blank submissions are ignored rather than treated as errors.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Clone returns an independent copy of the collection.
// A nil collection clones to an empty, non-nil one.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Index returns the position of the note with the given id, or -1.
func (c Collection) Index(id string) int {
	for i, n := range c {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the note with the given id.
func (c Collection) Find(id string) (Note, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Note{}, false
}

// Equal reports whether both collections hold the same notes in the same order.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Add returns a new collection with a note holding content appended at the end.
// The generated id is retried until it does not collide with an existing one.
func (c Collection) Add(content string, gen IDGenerator) (Collection, Note) {
	if gen == nil {
		gen = NewID
	}

	id := gen()
	for c.Index(id) >= 0 {
		id = gen()
	}

	note := Note{ID: id, Content: content}
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, note), note
}

// Edit returns a new collection where the note with the given id holds content.
// Position and every other note are unchanged.
func (c Collection) Edit(id, content string) (Collection, error) {
	i := c.Index(id)
	if i < 0 {
		return c, ErrNoteNotFound
	}
	out := c.Clone()
	out[i].Content = content
	return out, nil
}

// Delete returns a new collection without the note with the given id.
// The remaining notes keep their relative order.
func (c Collection) Delete(id string) (Collection, error) {
	i := c.Index(id)
	if i < 0 {
		return c, ErrNoteNotFound
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), nil
}
