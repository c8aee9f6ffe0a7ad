// Package lifecycle bridges store change events to github.com/aretw0/lifecycle.
package lifecycle

import (
	"context"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notepad/pkg/core"
)

// Option configures a Source.
type Option func(*storeSource)

// WithLogger sets the logger that reports coalesced events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *storeSource) { s.logger = logger }
}

// storeSource forwards store changes, keeping at most one undelivered event.
// Every consumer re-reads the whole collection, so an event that was never
// delivered is superseded by the newer one.
type storeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	logger *slog.Logger
}

// NewSource wraps a store's change channel as a lifecycle.Source.
// The output channel closes after the pending event, if any, is delivered
// once the input closes, or as soon as the Start context is cancelled.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.run)
	return nil
}

func (s *storeSource) run(ctx context.Context) error {
	defer close(s.out)

	in := s.events
	var (
		next    core.Event
		pending bool
	)
	for {
		var out chan lifecycle.Event
		if pending {
			out = s.out
		} else if in == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			if pending {
				s.logger.Debug("coalesced store event", "dropped", next.String(), "kept", e.String())
			}
			next, pending = e, true
		case out <- next:
			pending = false
		}
	}
}
