package aggregator

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/YoungY620/foldertxt/internal"
	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures a Watcher
type WatchOptions struct {
	Root           string
	IgnorePatterns []string
	DebounceMs     int
	MaxWaitMs      int
	// Relevant filters events; nil accepts every non-ignored path
	Relevant func(path string) bool
	OnChange func(paths []string)
}

// Watcher batches filesystem events under a root and hands them to
// OnChange after a quiet period (debounce) or at most MaxWaitMs after the
// first event.
type Watcher struct {
	debounceMs, maxWaitMs int
	matcher               Matcher
	relevant              func(string) bool
	onChange              func([]string)
	watcher               *fsnotify.Watcher
	rootPath              string

	mu                sync.Mutex
	pending           map[string]struct{}
	debounce, maxWait *time.Timer
	sem               chan struct{} // capacity 1: one OnChange at a time
}

func NewWatcher(opts WatchOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	root := filepath.Clean(opts.Root)
	w := &Watcher{
		rootPath:   root,
		matcher:    NewMatcher(root, opts.IgnorePatterns),
		relevant:   opts.Relevant,
		debounceMs: opts.DebounceMs,
		maxWaitMs:  opts.MaxWaitMs,
		onChange:   opts.OnChange,
		watcher:    fsw,
		pending:    make(map[string]struct{}),
		sem:        make(chan struct{}, 1),
	}
	if w.maxWaitMs < w.debounceMs {
		w.maxWaitMs = w.debounceMs
	}
	if err := w.watchAll(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) watchAll(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if w.matcher.Match(p) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) accepts(path string) bool {
	if w.matcher.Match(path) {
		return false
	}
	return w.relevant == nil || w.relevant(path)
}

// Run consumes events until Close is called
func (w *Watcher) Run() error {
	for {
		select {
		case e, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.accepts(e.Name) {
				continue
			}
			internal.LogDebug("Event: %s %s", e.Op, e.Name)
			if e.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
					internal.LogDebug("Watching new directory: %s", e.Name)
					if err := w.watchAll(e.Name); err != nil {
						internal.LogError("Failed to watch %s: %v", e.Name, err)
					}
				}
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.add(e.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				internal.LogError("Watcher error: %v", err)
			}
		}
	}
}

func (w *Watcher) add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	first := len(w.pending) == 0
	w.pending[path] = struct{}{}

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, w.Flush)

	if first {
		w.maxWait = time.AfterFunc(time.Duration(w.maxWaitMs)*time.Millisecond, w.Flush)
	}
}

// Pending returns the number of paths waiting for the next flush
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush hands pending paths to OnChange now. If OnChange is already
// running, the paths stay pending and are retried after the debounce.
func (w *Watcher) Flush() {
	select {
	case w.sem <- struct{}{}:
	default:
		internal.LogDebug("Aggregation in progress, deferring flush")
		w.rearm()
		return
	}
	defer func() { <-w.sem }()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	if w.maxWait != nil {
		w.maxWait.Stop()
		w.maxWait = nil
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) > 0 && w.onChange != nil {
		w.onChange(paths)
	}
}

func (w *Watcher) rearm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, w.Flush)
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	if w.maxWait != nil {
		w.maxWait.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
