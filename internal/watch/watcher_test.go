package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jtdman/CashRegister/internal/logging"
)

// recorder collects handled paths so tests can assert on call counts.
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.paths {
		if p == path {
			n++
		}
	}
	return n
}

// startWatcher runs a watcher over dir until the test ends.
func startWatcher(t *testing.T, dir string, debounce time.Duration, rec *recorder) {
	t.Helper()

	w, err := New(dir, debounce, logging.NewDefaultCLILogger(), rec.handle)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register the directory before the test
	// starts writing files.
	time.Sleep(100 * time.Millisecond)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), time.Second, logging.NewDefaultCLILogger(), func(string) {})
	if err == nil {
		t.Fatal("New() expected error for missing directory, got nil")
	}
}

func TestNewRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := New(file, time.Second, logging.NewDefaultCLILogger(), func(string) {})
	if err == nil {
		t.Fatal("New() expected error for non-directory path, got nil")
	}
}

func TestWatcherCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, 50*time.Millisecond, rec)

	path := filepath.Join(dir, "sales.txt")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("$1.97 $2.00\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, 3*time.Second, func() bool { return rec.count(path) == 1 }) {
		t.Fatalf("expected 1 handler call for %s, got %d", path, rec.count(path))
	}

	// The burst must not produce a second call once settled.
	time.Sleep(300 * time.Millisecond)
	if got := rec.count(path); got != 1 {
		t.Errorf("expected rapid writes to coalesce into 1 call, got %d", got)
	}
}

func TestWatcherFiltersFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, 50*time.Millisecond, rec)

	wanted := filepath.Join(dir, "register.txt")
	ignoredExt := filepath.Join(dir, "register.csv")
	ignoredOutput := filepath.Join(dir, "register-output.txt")

	for _, path := range []string{wanted, ignoredExt, ignoredOutput} {
		if err := os.WriteFile(path, []byte("$1.97 $2.00\n"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	if !waitFor(t, 3*time.Second, func() bool { return rec.count(wanted) == 1 }) {
		t.Fatalf("expected 1 handler call for %s, got %d", wanted, rec.count(wanted))
	}

	if got := rec.count(ignoredExt); got != 0 {
		t.Errorf("expected non-txt file to be ignored, got %d calls", got)
	}
	if got := rec.count(ignoredOutput); got != 0 {
		t.Errorf("expected output file to be ignored, got %d calls", got)
	}
}

func TestWatcherHandlesSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, dir, 50*time.Millisecond, rec)

	first := filepath.Join(dir, "monday.txt")
	second := filepath.Join(dir, "tuesday.txt")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte("$1.97 $2.00\n"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		return rec.count(first) == 1 && rec.count(second) == 1
	})
	if !ok {
		t.Fatalf("expected 1 call each, got %d for %s and %d for %s",
			rec.count(first), first, rec.count(second), second)
	}
}
