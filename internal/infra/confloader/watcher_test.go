package confloader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...WatcherOption) *Watcher {
	t.Helper()
	w, err := NewWatcher(opts...)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	return w
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestWatcherOptions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	w := newTestWatcher(t, WithWatcherLogger(logger))
	defer w.Stop()

	if w.logger != logger {
		t.Error("WithWatcherLogger not applied")
	}
}

func TestWatcherWatchMissingDir(t *testing.T) {
	w := newTestWatcher(t)
	defer w.Stop()

	if err := w.Watch("/nonexistent/path/voltkv.yaml"); err == nil {
		t.Error("Watch on a missing directory should fail")
	}
}

func TestWatcherOnChange(t *testing.T) {
	w := newTestWatcher(t)
	defer w.Stop()

	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		w.OnChange(func(string) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	w.notifyCallbacks("voltkv.yaml")

	mu.Lock()
	defer mu.Unlock()
	if count != 3 {
		t.Errorf("callbacks invoked = %d, want 3", count)
	}
}

func TestWatcherFileChange(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "voltkv.yaml")
	writeConfig(t, cfgFile, "log:\n  level: info\n")

	w := newTestWatcher(t)
	if err := w.Watch(cfgFile); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	changed := make(chan string, 8)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, cfgFile, "log:\n  level: debug\n")

	select {
	case path := <-changed:
		if path == "" {
			t.Error("callback received empty path")
		}
	case <-time.After(2 * time.Second):
		t.Error("no change notification for an edited file")
	}
}

func TestWatcherFileCreate(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "voltkv.yaml")
	writeConfig(t, existing, "log:\n  level: info\n")

	w := newTestWatcher(t)
	// The watch covers the parent directory, so a sibling file created
	// later still produces an event.
	if err := w.Watch(existing); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	changed := make(chan string, 8)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, filepath.Join(dir, "extra.yaml"), "metrics:\n  enabled: true\n")

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Error("no change notification for a created file")
	}
}

func TestWatcherConcurrentNotify(t *testing.T) {
	w := newTestWatcher(t)
	defer w.Stop()

	var mu sync.Mutex
	count := 0
	w.OnChange(func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.notifyCallbacks("voltkv.yaml")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 100 {
		t.Errorf("callbacks invoked = %d, want 100", count)
	}
}
