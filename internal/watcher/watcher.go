// Package watcher reports on-disk changes to the open directory.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the directory must stay quiet before a
// change is reported
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches one directory at a time. Bursts of events are collapsed
// into one notification carrying the directory path.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	mu  sync.Mutex
	dir string

	changes chan string
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) { w.log = log.Named("watcher") }
}

func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		changes:  make(chan string, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch switches to dir. Events for the previous directory are ignored
// from here on.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	prev := w.dir
	w.dir = dir
	w.mu.Unlock()

	if prev == dir {
		return nil
	}
	if prev != "" {
		if err := w.fw.Remove(prev); err != nil {
			w.log.Debug("unwatch failed", zap.String("dir", prev), zap.Error(err))
		}
	}
	if err := w.fw.Add(dir); err != nil {
		w.mu.Lock()
		w.dir = ""
		w.mu.Unlock()
		return err
	}
	w.log.Debug("watching", zap.String("dir", dir))
	return nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Changes delivers the path of the directory that changed
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run forwards debounced changes until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := ""

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			dir := w.Dir()
			if !w.relevant(ev, dir) {
				continue
			}
			pending = dir
			timer.Reset(w.debounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if pending == "" || pending != w.Dir() {
				pending = ""
				continue
			}
			select {
			case w.changes <- pending:
			default:
				// a notification is already waiting
			}
			pending = ""
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event, dir string) bool {
	if dir == "" || ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == dir || filepath.Dir(name) == dir
}

func (w *Watcher) Close() error {
	return w.fw.Close()
}
