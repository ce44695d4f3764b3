package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/dreamdiary/internal/atomicfile"
	"github.com/aretw0/dreamdiary/pkg/core"
)

// DebounceInterval collapses bursts of events on the same file.
const DebounceInterval = 50 * time.Millisecond

// Watch reports changes to record files until ctx is cancelled. Changes made
// through this backend are reported too.
func (b *Backend) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, k := range core.Kinds {
		if err := watcher.Add(filepath.Join(b.Path, k.Dir())); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", k.Dir(), err)
		}
	}

	events := make(chan core.Event, 16)
	deb := newDebouncer(DebounceInterval)
	b.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer b.setWatcherActive(false)
		defer watcher.Close()

		err := b.watchLoop(ctx, watcher, deb, events)
		// Wait for pending sends before the channel is closed.
		deb.stopAndWait()
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		b.config.Logger.Error("watcher stopped", "error", err)
	}))

	return events, nil
}

func (b *Backend) watchLoop(ctx context.Context, w *fsnotify.Watcher, deb *debouncer, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := b.toEvent(ev)
			if !ok {
				continue
			}
			b.config.Logger.Debug("event received", "name", ev.Name, "op", ev.Op.String())
			deb.add(ev.Name, func() {
				select {
				case events <- e:
					b.recordEvent()
				case <-ctx.Done():
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			b.config.Logger.Error("fsnotify error", "error", err)
		}
	}
}

// toEvent maps a filesystem event on a record file. Other files are ignored.
func (b *Backend) toEvent(ev fsnotify.Event) (core.Event, bool) {
	if atomicfile.IsTemp(ev.Name) {
		return core.Event{}, false
	}
	rel, err := filepath.Rel(b.Path, ev.Name)
	if err != nil {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)

	var kind core.Kind
	for _, k := range core.Kinds {
		if ok, _ := doublestar.Match(b.pattern(k), rel); ok {
			kind = k
			break
		}
	}
	if kind == "" {
		return core.Event{}, false
	}

	var typ core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		typ = core.EventCreate
	case ev.Has(fsnotify.Write):
		typ = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return core.Event{}, false
	}

	base := filepath.Base(rel)
	return core.Event{
		Type:      typ,
		Kind:      kind,
		ID:        strings.TrimSuffix(base, filepath.Ext(base)),
		Timestamp: time.Now().Unix(),
	}, true
}

// debouncer runs only the last callback registered for a key within the
// interval.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stopAndWait cancels pending callbacks and waits for running ones.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
