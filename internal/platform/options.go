package platform

import (
	"log/slog"

	"github.com/aretw0/notepad/pkg/core"
)

// options holds the internal configuration for opening a store.
type options struct {
	store       core.Store
	logger      *slog.Logger
	adapter     string
	readOnly    bool
	mustExist   bool
	devMode     *bool
	serializers map[string]any
	onWatchErr  func(error)
}

// Option defines a functional option for configuring notepad.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		serializers: make(map[string]any),
	}
}

// WithLogger sets the logger shared by the service and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store (e.g. mock, remote).
// If provided, adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// When unset, the adapter is inferred from the path extension.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithReadOnly opens the store in read-only mode: Save fails with
// core.ErrReadOnly and nothing is created on disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist requires the directory holding the store to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithDevMode forces (or disables) the development data file.
// When not set, the NOTEPAD_DEV environment variable decides.
func WithDevMode(enabled bool) Option {
	return func(o *options) {
		o.devMode = &enabled
	}
}

// WithSerializer registers a custom serializer for a file extension.
// The serializer must implement fs.Serializer; this is validated when the store is opened.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onWatchErr = fn
	}
}
