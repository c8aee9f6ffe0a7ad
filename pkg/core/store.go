package core

import "context"

// Store defines the contract for persisting the note collection.
// The collection is always read and written as a whole: there is no
// per-note update. Adhering to this interface keeps the core independent
// of the underlying medium (JSON file, YAML file, SQLite).
type Store interface {
	// Load returns the persisted collection in insertion order.
	// A missing representation yields an empty collection, not an error.
	// A representation that exists but cannot be parsed yields *StorageReadError.
	Load(ctx context.Context) (Collection, error)

	// Save overwrites the persisted representation with c.
	// Failures are reported as *StorageWriteError.
	Save(ctx context.Context, c Collection) error

	// Initialize ensures the underlying medium is ready (e.g. parent directory exists).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report external changes to
// their persisted representation.
type Watchable interface {
	// Watch emits an Event each time the representation changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}
