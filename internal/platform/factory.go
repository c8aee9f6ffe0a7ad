package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/adapters/sqlite"
	"github.com/aretw0/notepad/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// New opens the store at path and wraps it in a core.Service.
//
//	svc, err := notepad.New("", notepad.WithReadOnly(true))
func New(path string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := open(path, o)
	if err != nil {
		return nil, err
	}
	return core.NewService(store, o.logger), nil
}

// Open resolves the path, builds the selected adapter and initializes it.
// The path argument is adapter-specific (a JSON/YAML file for "fs", a
// database file for "sqlite").
func Open(path string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(path, o)
}

func open(path string, o *options) (core.Store, error) {
	// 1. Injected store wins.
	if o.store != nil {
		return o.store, nil
	}

	// 2. Resolve the path (default location, dev file).
	dev := IsDevEnv()
	if o.devMode != nil {
		dev = *o.devMode
	}
	resolved := ResolvePath(path, dev)
	if dev && o.logger != nil {
		o.logger.Debug("running with development data file", "path", resolved)
	}

	// 3. Build the adapter.
	adapter := o.adapter
	if adapter == "" {
		adapter = DetectAdapter(resolved)
	}

	var store core.Store
	switch adapter {
	case AdapterFS:
		s, err := newFS(resolved, o)
		if err != nil {
			return nil, err
		}
		store = s
	case AdapterSQLite:
		store = sqlite.New(sqlite.Config{
			Path:      resolved,
			MustExist: o.mustExist,
			ReadOnly:  o.readOnly,
			Logger:    o.logger,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", adapter)
	}

	// 4. Prepare the medium.
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func newFS(path string, o *options) (*fs.Store, error) {
	store := fs.NewStore(fs.Config{
		Path:         path,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.onWatchErr,
	})

	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			if o.logger != nil {
				o.logger.Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			}
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		store.RegisterSerializer(ext, serializer)
	}
	return store, nil
}

// DetectAdapter picks the adapter from the file extension: .db, .sqlite and
// .sqlite3 select SQLite, everything else the file store.
func DetectAdapter(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return AdapterSQLite
	default:
		return AdapterFS
	}
}
