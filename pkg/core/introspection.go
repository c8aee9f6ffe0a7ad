package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StoreType string     `json:"store_type"`
	Loads     int        `json:"loads"`
	Saves     int        `json:"saves"`
	Failures  int        `json:"failures"`
	LastError string     `json:"last_error,omitempty"`
	LastSave  *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ServiceState{
		StoreType: storeType,
		Loads:     s.loads,
		Saves:     s.saves,
		Failures:  s.failures,
		LastError: s.lastError,
		LastSave:  s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
