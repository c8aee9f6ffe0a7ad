package notepad

import (
	"log/slog"

	"github.com/aretw0/notepad/internal/platform"
	"github.com/aretw0/notepad/pkg/core"
)

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Collection is a public alias for the ordered note collection.
type Collection = core.Collection

// --- Configuration ---

// Option defines a functional option for configuring notepad.
type Option = platform.Option

// WithLogger sets the logger for the service and the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithReadOnly disables saving.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithDevMode forces the development data file (notes-dev.json) on or off.
func WithDevMode(enabled bool) Option {
	return platform.WithDevMode(enabled)
}

// WithSerializer registers a custom fs.Serializer for a file extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a notepad Service backed by the store at path.
// An empty path selects the per-user default location.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open builds and initializes the store without wrapping it in a service.
func Open(path string, opts ...Option) (core.Store, error) {
	return platform.Open(path, opts...)
}

// --- Utils ---

// DefaultPath returns the per-user default store location.
func DefaultPath() string {
	return platform.DefaultPath()
}

// ResolvePath applies the default location and the development suffix.
func ResolvePath(userPath string, dev bool) string {
	return platform.ResolvePath(userPath, dev)
}
