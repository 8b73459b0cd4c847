package confloader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.watcher == nil {
		t.Error("NewWatcher() watcher is nil")
	}
	if w.done == nil {
		t.Error("NewWatcher() done channel is nil")
	}
	if w.logger == nil {
		t.Error("NewWatcher() logger is nil")
	}
}

func TestNewWatcher_WithLogger(t *testing.T) {
	l := logger.Discard()

	w, err := NewWatcher(WithWatcherLogger(l))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.logger != l {
		t.Error("WithWatcherLogger() option not applied")
	}
}

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/dir/config.yaml"); err == nil {
		t.Error("Watch() should fail for a nonexistent directory")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()
	time.Sleep(20 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func startWatching(t *testing.T, path string) <-chan string {
	t.Helper()

	w, err := NewWatcher(WithWatcherLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})

	w.StartAsync()
	t.Cleanup(func() { w.Stop() })

	// Wait for watcher to be ready
	time.Sleep(100 * time.Millisecond)
	return changed
}

func TestWatcher_FileChange(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	changed := startWatching(t, configFile)

	if err := os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case path := <-changed:
		if filepath.Clean(path) != filepath.Clean(configFile) {
			t.Errorf("OnChange() path = %q, want %q", path, configFile)
		}
	case <-time.After(2 * time.Second):
		t.Error("OnChange() callback was not triggered within timeout")
	}
}

func TestWatcher_FileRecreated(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := startWatching(t, configFile)

	// Editors often write a temp file and rename it over the original.
	tmp := configFile + ".tmp"
	if err := os.WriteFile(tmp, []byte("a: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, configFile); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Error("OnChange() callback was not triggered after rename")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := startWatching(t, configFile)

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		t.Errorf("OnChange() fired for unrelated file %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ConcurrentCallbacks(t *testing.T) {
	w, err := NewWatcher(WithWatcherLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	var count int
	var mu sync.Mutex

	w.OnChange(func(path string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.notifyCallbacks("/test/path")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 100 {
		t.Errorf("Concurrent notifications: count = %d, want 100", count)
	}
}
