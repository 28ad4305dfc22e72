package aggregator

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "src"), 0755))

	w, err := NewWatcher(WatchOptions{Root: root, DebounceMs: 100, MaxWaitMs: 1000})
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(WatchOptions{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestWatcher_FlushBatchesPending(t *testing.T) {
	root := t.TempDir()

	var mu sync.Mutex
	var calls [][]string
	w, err := NewWatcher(WatchOptions{
		Root:       root,
		DebounceMs: 10000,
		MaxWaitMs:  10000,
		OnChange: func(paths []string) {
			mu.Lock()
			calls = append(calls, paths)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	defer w.Close()

	w.add(filepath.Join(root, "a.dart"))
	w.add(filepath.Join(root, "b.dart"))
	w.add(filepath.Join(root, "a.dart"))
	assert.Equal(t, 2, w.Pending())

	w.Flush()
	assert.Equal(t, 0, w.Pending())

	// Nothing pending: no callback
	w.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.dart"), filepath.Join(root, "b.dart")}, calls[0])
}

func TestWatcher_FlushDeferredWhileRunning(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(WatchOptions{Root: root, DebounceMs: 10000, MaxWaitMs: 10000})
	require.NoError(t, err)
	defer w.Close()

	w.sem <- struct{}{}
	w.add(filepath.Join(root, "a.dart"))
	w.Flush()
	assert.Equal(t, 1, w.Pending(), "paths stay pending while a run is in progress")
	<-w.sem
}

func TestWatcher_DebouncedEvents(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "lib")
	require.NoError(t, os.MkdirAll(lib, 0755))

	agg := New(root, Options{})
	changed := make(chan []string, 4)
	w, err := NewWatcher(WatchOptions{
		Root:       root,
		DebounceMs: 50,
		MaxWaitMs:  500,
		Relevant:   agg.Relevant,
		OnChange:   func(paths []string) { changed <- paths },
	})
	require.NoError(t, err)
	defer w.Close()
	go w.Run()

	// Root-level outputs never trigger
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.txt"), []byte("out"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "a.dart"), []byte("A"), 0644))

	select {
	case paths := <-changed:
		assert.Contains(t, paths, filepath.Join(lib, "a.dart"))
		assert.NotContains(t, paths, filepath.Join(root, "lib.txt"))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_IgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	ignored := filepath.Join(root, "build")
	require.NoError(t, os.MkdirAll(ignored, 0755))

	changed := make(chan []string, 4)
	w, err := NewWatcher(WatchOptions{
		Root:           root,
		IgnorePatterns: []string{"build"},
		DebounceMs:     20,
		MaxWaitMs:      100,
		OnChange:       func(paths []string) { changed <- paths },
	})
	require.NoError(t, err)
	defer w.Close()
	go w.Run()

	require.NoError(t, os.WriteFile(filepath.Join(ignored, "x.dart"), []byte("x"), 0644))

	select {
	case paths := <-changed:
		t.Fatalf("unexpected notification: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}
