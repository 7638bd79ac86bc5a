package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type reloadRecorder struct {
	mu    sync.Mutex
	dirs  []string
	fired chan string
}

func newReloadRecorder() *reloadRecorder {
	return &reloadRecorder{fired: make(chan string, 16)}
}

func (r *reloadRecorder) reload(_ context.Context, dir string) error {
	r.mu.Lock()
	r.dirs = append(r.dirs, dir)
	r.mu.Unlock()
	r.fired <- dir
	return nil
}

func (r *reloadRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirs)
}

func waitReload(t *testing.T, r *reloadRecorder) string {
	t.Helper()
	select {
	case dir := <-r.fired:
		return dir
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return ""
	}
}

func TestWatcherDebouncesPluginDir(t *testing.T) {
	root := t.TempDir()
	dir := writeLuaPlugin(t, root, "alpha", "")
	rec := newReloadRecorder()
	logger, _ := test.NewNullLogger()

	w, err := NewWatcher(context.Background(), []string{root}, rec.reload,
		WithDebounce(200*time.Millisecond), WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		code := []byte(fmt.Sprintf("-- edit %d", i))
		if err := os.WriteFile(filepath.Join(dir, "alpha.lua"), code, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ReadmeFile), []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := waitReload(t, rec); got != dir {
		t.Errorf("reloaded %q, want %q", got, dir)
	}
	time.Sleep(500 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("reloads = %d, want 1", n)
	}
}

func TestWatcherNewPluginDir(t *testing.T) {
	root := t.TempDir()
	rec := newReloadRecorder()
	logger, _ := test.NewNullLogger()

	w, err := NewWatcher(context.Background(), []string{root}, rec.reload,
		WithDebounce(50*time.Millisecond), WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	dir := writeLuaPlugin(t, root, "fresh", "")
	if got := waitReload(t, rec); got != dir {
		t.Errorf("reloaded %q, want %q", got, dir)
	}
}

func TestWatcherPluginDir(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{roots: map[string]bool{root: true}}

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "alpha"), filepath.Join(root, "alpha")},
		{filepath.Join(root, "alpha", "alpha.lua"), filepath.Join(root, "alpha")},
		{filepath.Join(root, "alpha", "nested", "x"), filepath.Join(root, "alpha")},
		{root, ""},
		{filepath.Join(filepath.Dir(root), "elsewhere"), ""},
	}
	for _, tt := range tests {
		if got := w.pluginDir(tt.path); got != tt.want {
			t.Errorf("pluginDir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWatcherMissingPathAndClose(t *testing.T) {
	root := t.TempDir()
	logger, hook := test.NewNullLogger()

	w, err := NewWatcher(context.Background(), []string{root, filepath.Join(root, "missing")},
		func(context.Context, string) error { return nil }, WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if !hasMessage(hook, "not watching plugin path") {
		t.Error("missing path not reported")
	}
	if paths := w.WatchedPaths(); len(paths) != 1 || paths[0] != root {
		t.Errorf("WatchedPaths() = %v", paths)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	root := t.TempDir()
	logger, _ := test.NewNullLogger()
	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool

	w, err := NewWatcher(context.Background(), []string{root}, func(context.Context, string) error {
		close(started)
		<-release
		finished = true
		return nil
	}, WithDebounce(10*time.Millisecond), WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	w.schedule(context.Background(), filepath.Join(root, "alpha"))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("reload did not start")
	}

	done := make(chan error, 1)
	go func() { done <- w.Close() }()
	select {
	case <-done:
		t.Fatal("Close returned while a reload was running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Close() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	if !finished {
		t.Error("Close returned before the reload finished")
	}

	// Reloads scheduled after Close never run.
	w.schedule(context.Background(), filepath.Join(root, "beta"))
	time.Sleep(50 * time.Millisecond)
}
