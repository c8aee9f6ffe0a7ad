package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	ReadOnly      bool       `json:"read_only"`
	Serializers   []string   `json:"serializers"`
	WatcherActive bool       `json:"watcher_active"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
	LastSave      *time.Time `json:"last_save,omitempty"`
	NoteCount     int        `json:"note_count"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serializers := make([]string, 0, len(s.serializers))
	for ext := range s.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return StoreState{
		Path:          s.Path,
		Format:        s.format(),
		ReadOnly:      s.config.ReadOnly,
		Serializers:   serializers,
		WatcherActive: s.watcherActive,
		LastLoad:      s.lastLoad,
		LastSave:      s.lastSave,
		NoteCount:     s.lastCount,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "file-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
