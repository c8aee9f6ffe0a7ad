package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notepad/pkg/core"
)

// DefaultDebounce coalesces the burst of events produced by one atomic save.
const DefaultDebounce = 50 * time.Millisecond

// DefaultIgnore lists base-name globs never reported by the watcher.
var DefaultIgnore = []string{TempFilePrefix + "*", "*.swp", "*~"}

// Watch implements core.Watchable.
// The parent directory is watched (atomic saves replace the file, which
// would drop a watch placed on the file itself) and events are narrowed
// down to the store file.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, watcher, events)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(fmt.Errorf("watcher panic: %w", err))
		} else {
			s.config.Logger.Error("watcher panic", "error", err)
		}
	}))

	return events, nil
}

type watchWorker struct {
	store     *Store
	target    string
	ignore    []string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
	stop      chan struct{}
}

func newWatchWorker(store *Store, watcher *fsnotify.Watcher, events chan core.Event) *watchWorker {
	ignore := store.config.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	debounce := store.config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &watchWorker{
		store:     store,
		target:    filepath.Base(store.Path),
		ignore:    ignore,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(debounce),
		stop:      make(chan struct{}),
	}
}

// run is the main event loop. It owns the events channel and closes it on exit.
func (w *watchWorker) run(ctx context.Context) error {
	defer close(w.events)
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err := w.loop(ctx)

	// No timer may fire into a closed channel.
	close(w.stop)
	w.debouncer.stopAndWait()

	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.store.config.Logger.Error("fsnotify error", "error", err)
			if w.store.config.ErrorHandler != nil {
				w.store.config.ErrorHandler(err)
			}
		}
	}
}

// shouldIgnore filters out everything but relevant operations on the store file.
func (w *watchWorker) shouldIgnore(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	if base != w.target {
		return true
	}
	return !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename)
}

func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	w.store.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
	if w.shouldIgnore(event) {
		return
	}

	w.debouncer.add(func() {
		// Classify when the burst settles: a rename-over leaves the file in place.
		e := core.Event{
			Type:      core.EventModify,
			Path:      w.store.Path,
			Timestamp: time.Now().Unix(),
		}
		if _, err := os.Stat(w.store.Path); errors.Is(err, os.ErrNotExist) {
			e.Type = core.EventDelete
		}
		select {
		case w.events <- e:
		case <-ctx.Done():
		case <-w.stop:
		}
	})
}

// debouncer runs the most recent callback once no new one arrived for delay.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	latest  func()
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) add(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.latest = fn
	if d.timer != nil && d.timer.Stop() {
		d.timer.Reset(d.delay)
		return
	}

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		run := d.latest
		d.timer = nil
		d.mu.Unlock()
		if run != nil {
			run()
		}
	})
}

func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.timer = nil
	d.mu.Unlock()
	d.wg.Wait()
}
