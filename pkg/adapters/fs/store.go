package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notepad/pkg/core"
)

// DefaultExtension is used when the store path has no recognised extension.
const DefaultExtension = ".json"

// Store implements core.Store on a single file.
// The whole collection is read on Load and atomically replaced on Save.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	serializers   map[string]Serializer
	watcherActive bool
	lastLoad      *time.Time
	lastSave      *time.Time
	lastCount     int
}

// Config holds the configuration for the file store.
type Config struct {
	Path         string
	MustExist    bool // parent directory must already exist
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher runtime errors

	// Ignore holds base-name globs the watcher never reports. Nil means DefaultIgnore.
	Ignore   []string
	Debounce time.Duration
}

// NewStore creates a new file-backed store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(),
	}
}

// RegisterSerializer registers (or overrides) the serializer for an extension.
func (s *Store) RegisterSerializer(ext string, serializer Serializer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.serializers[strings.ToLower(ext)] = serializer
}

// Format returns the extension whose serializer handles the store file.
func (s *Store) Format() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format()
}

func (s *Store) format() string {
	ext := strings.ToLower(filepath.Ext(s.Path))
	if _, ok := s.serializers[ext]; ok {
		return ext
	}
	return DefaultExtension
}

func (s *Store) serializer() Serializer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serializers[s.format()]
}

// Initialize makes sure the directory holding the store file exists.
// In read-only mode nothing is created.
func (s *Store) Initialize(ctx context.Context) error {
	if s.Path == "" {
		return errors.New("store path is empty")
	}

	dir := filepath.Dir(s.Path)
	if s.config.ReadOnly || s.config.MustExist {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			if s.config.ReadOnly {
				return nil
			}
			return fmt.Errorf("store directory does not exist: %s", dir)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store directory is not a directory: %s", dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// Load reads the whole collection from disk.
//
// A missing file is not an error: it yields an empty collection. An empty
// file is treated the same way. Anything else that cannot be read or parsed
// is reported as *core.StorageReadError.
func (s *Store) Load(ctx context.Context) (core.Collection, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.config.Logger.Debug("no notes file yet", "path", s.Path)
			s.recordLoad(0)
			return core.Collection{}, nil
		}
		return nil, &core.StorageReadError{Path: s.Path, Err: err}
	}

	notes, err := s.serializer().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &core.StorageReadError{Path: s.Path, Err: err}
	}

	s.recordLoad(len(notes))
	return notes, nil
}

// Save serializes c and atomically replaces the store file with it.
//
// Workflow:
//  1. Refuse in read-only mode.
//  2. Serialize the collection in insertion order.
//  3. Write to a temp file in the same directory, fsync, rename over the target.
//
// The parent directory is never created here: a missing directory is a write failure.
func (s *Store) Save(ctx context.Context, c core.Collection) error {
	if s.config.ReadOnly {
		return &core.StorageWriteError{Path: s.Path, Err: core.ErrReadOnly}
	}

	data, err := s.serializer().Serialize(c)
	if err != nil {
		return &core.StorageWriteError{Path: s.Path, Err: fmt.Errorf("failed to serialize notes: %w", err)}
	}

	if err := writeFileAtomic(s.Path, data, 0644); err != nil {
		return &core.StorageWriteError{Path: s.Path, Err: err}
	}

	s.config.Logger.Debug("notes written", "path", s.Path, "count", len(c), "bytes", len(data))
	s.recordSave(len(c))
	return nil
}

func (s *Store) recordLoad(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastLoad = &now
	s.lastCount = count
}

func (s *Store) recordSave(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastSave = &now
	s.lastCount = count
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
