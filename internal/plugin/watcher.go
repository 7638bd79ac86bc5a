package plugin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period before a changed plugin is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc reloads the plugin directory dir.
type ReloadFunc func(ctx context.Context, dir string) error

// Watcher reloads plugin directories when their files change.
//
// Each search path and each plugin directory directly below it is
// watched. Changes are coalesced per plugin directory: the reload runs
// once the directory has been quiet for the debounce delay.
type Watcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	reload  ReloadFunc
	delay   time.Duration
	log     logrus.FieldLogger

	roots   map[string]bool
	pending map[string]*time.Timer

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(log logrus.FieldLogger) WatcherOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// NewWatcher starts watching paths. Paths that do not exist are skipped.
// Reloads run with ctx on timer goroutines, one directory at a time per
// debounce window; Close waits for reloads already running.
func NewWatcher(ctx context.Context, paths []string, reload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		reload:  reload,
		delay:   DefaultDebounce,
		log:     logrus.StandardLogger(),
		roots:   make(map[string]bool),
		pending: make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithField("component", "watcher")

	for _, p := range paths {
		if err := w.addRoot(p); err != nil {
			w.log.WithError(err).WithField("path", p).Warn("not watching plugin path")
		}
	}

	w.closedWg.Add(1)
	go w.processLoop(ctx)

	return w, nil
}

func (w *Watcher) addRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}
	w.roots[abs] = true

	entries, err := os.ReadDir(abs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = w.watcher.Add(filepath.Join(abs, e.Name()))
		}
	}
	return nil
}

// WatchedPaths returns the watched directories.
func (w *Watcher) WatchedPaths() []string {
	return w.watcher.WatchList()
}

// pluginDir maps a changed path to the plugin directory it belongs to,
// or "" when it is not below a search path.
func (w *Watcher) pluginDir(path string) string {
	for root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
		return filepath.Join(root, first)
	}
	return ""
}

func (w *Watcher) processLoop(ctx context.Context) {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	dir := w.pluginDir(ev.Name)
	if dir == "" {
		return
	}

	// New plugin directories are watched as they appear.
	if ev.Op.Has(fsnotify.Create) && ev.Name == dir {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			_ = w.watcher.Add(dir)
		}
	}

	w.schedule(ctx, dir)
}

func (w *Watcher) schedule(ctx context.Context, dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.pending[dir]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[dir] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.pending, dir)
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.closedWg.Add(1)
		w.mu.Unlock()
		defer w.closedWg.Done()

		log := w.log.WithField("dir", dir)
		if err := w.reload(ctx, dir); err != nil {
			log.WithError(err).Error("plugin reload failed")
			return
		}
		log.Info("plugin reloaded")
	})
}

// Close stops the watcher, cancels pending reloads and waits for
// running ones to finish.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for dir, t := range w.pending {
		t.Stop()
		delete(w.pending, dir)
	}
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.watcher.Close()
}
