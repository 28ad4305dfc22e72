package aggregator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/YoungY620/foldertxt/internal"
)

// ErrNotDirectory is returned when the root exists but is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Options configures an Aggregator
type Options struct {
	Extension        string    // target extension, default ".dart"
	ConsolidatedName string    // default all_<ext>_files.txt
	IgnorePatterns   []string  // directories to neither process nor descend into
	Out              io.Writer // progress messages, default io.Discard
}

// FolderOutput describes one written <folder>.txt
type FolderOutput struct {
	Name  string `json:"name"`
	Dir   string `json:"dir"`
	Path  string `json:"path"`
	Files int    `json:"files"`
	Bytes int64  `json:"bytes"`
}

// Result summarises one aggregation run
type Result struct {
	Root         string         `json:"root"`
	Missing      bool           `json:"missing,omitempty"`
	Consolidated string         `json:"consolidated"`
	Folders      []FolderOutput `json:"folders"`
	Skipped      []string       `json:"skipped"`
	Overwritten  []string       `json:"overwritten"`
	Files        int            `json:"files"`
	Bytes        int64          `json:"bytes"`
	Duration     time.Duration  `json:"duration"`
}

// Aggregator collects source files per subfolder into flat text files
type Aggregator struct {
	root             string
	ext              string
	consolidatedName string
	matcher          Matcher
	out              io.Writer

	mu sync.Mutex // one run at a time
}

func New(root string, opts Options) *Aggregator {
	root = filepath.Clean(root)
	ext := NormalizeExtension(opts.Extension)
	name := opts.ConsolidatedName
	if name == "" {
		name = DefaultConsolidatedName(ext)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Aggregator{
		root:             root,
		ext:              ext,
		consolidatedName: name,
		matcher:          NewMatcher(root, opts.IgnorePatterns),
		out:              out,
	}
}

// Aggregate runs a single aggregation over root
func Aggregate(ctx context.Context, root string, opts Options) (*Result, error) {
	return New(root, opts).Run(ctx)
}

// Extension returns the normalised target extension
func (a *Aggregator) Extension() string { return a.ext }

// ConsolidatedPath returns where the consolidated file is written
func (a *Aggregator) ConsolidatedPath() string {
	return filepath.Join(a.root, a.consolidatedName)
}

// Run writes every <folder>.txt and the consolidated file.
// A missing root is reported on Out and is not an error.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	res := &Result{Root: a.root, Consolidated: a.ConsolidatedPath()}

	info, err := os.Stat(a.root)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(a.out, "The folder '%s' does not exist.\n", a.root)
		res.Missing = true
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", a.root, ErrNotDirectory)
	}

	f, err := os.Create(res.Consolidated)
	if err != nil {
		return nil, fmt.Errorf("create consolidated file: %w", err)
	}
	r := &run{
		Aggregator:   a,
		res:          res,
		consolidated: bufio.NewWriter(f),
		written:      make(map[string]string),
	}
	fmt.Fprintf(a.out, "Creating consolidated file for all %s files...\n", a.ext)
	internal.LogDebug("Aggregating %s files under %s", a.ext, a.root)

	walkErr := r.walk(ctx, a.root)
	flushErr := r.consolidated.Flush()
	closeErr := f.Close()
	if err := errors.Join(walkErr, flushErr, closeErr); err != nil {
		internal.LogError("Aggregation aborted: %v", err)
		return res, err
	}

	res.Duration = time.Since(start)
	fmt.Fprintf(a.out, "All %s files combined and saved to '%s'.\n", a.ext, res.Consolidated)
	internal.Record(internal.HistoryEntry{
		Type:     "done",
		Path:     res.Consolidated,
		Files:    res.Files,
		Bytes:    res.Bytes,
		Duration: res.Duration.String(),
	})
	return res, nil
}

// Relevant reports whether a change at path can affect the output.
// Entries the run itself writes into the root are not.
func (a *Aggregator) Relevant(path string) bool {
	path = filepath.Clean(path)
	if path == a.root {
		return false
	}
	if filepath.Dir(path) != a.root {
		return !a.matcher.Match(path)
	}
	base := filepath.Base(path)
	if base == a.consolidatedName || base == LockFileName || strings.HasSuffix(base, ".txt") {
		return false
	}
	if a.matcher.Match(path) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		// Gone: it may have been a subfolder.
		return true
	}
	return info.IsDir()
}

// run holds the state of one Run call
type run struct {
	*Aggregator
	res          *Result
	consolidated *bufio.Writer
	written      map[string]string // folder output path -> source dir
}

// walk processes every immediate subfolder of dir, then descends into
// each of them in the same order. Symlinked folders are processed but
// not descended into.
func (r *run) walk(ctx context.Context, dir string) error {
	subdirs, err := r.subfolders(dir)
	if err != nil {
		return err
	}
	for _, sub := range subdirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processFolder(sub.path); err != nil {
			return err
		}
	}
	for _, sub := range subdirs {
		if sub.link {
			continue
		}
		if err := r.walk(ctx, sub.path); err != nil {
			return err
		}
	}
	return nil
}

type subfolder struct {
	path string
	link bool // symlink to a directory
}

func (r *run) subfolders(dir string) ([]subfolder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs []subfolder
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		link := e.Type()&fs.ModeSymlink != 0
		if link {
			info, err := os.Stat(p)
			if err != nil || !info.IsDir() {
				continue
			}
		} else if !e.IsDir() {
			continue
		}
		if r.matcher.Match(p) {
			internal.LogDebug("Ignoring folder: %s", p)
			continue
		}
		dirs = append(dirs, subfolder{path: p, link: link})
	}
	return dirs, nil
}

// sourceFiles lists the direct entries of dir ending with the extension
func (r *run) sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), r.ext) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				continue
			}
		}
		files = append(files, p)
	}
	return files, nil
}

func (r *run) processFolder(dir string) error {
	name := filepath.Base(dir)
	fmt.Fprintf(r.out, "Processing folder: %s\n", name)

	files, err := r.sourceFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(r.out, "No %s files found in '%s'. Skipping...\n", r.ext, dir)
		r.res.Skipped = append(r.res.Skipped, dir)
		internal.Record(internal.HistoryEntry{Type: "skip", Folder: name, Path: dir})
		return nil
	}

	outPath := filepath.Join(r.root, name+".txt")
	var folderOut *bufio.Writer
	var folderFile *os.File
	if outPath == r.res.Consolidated {
		internal.LogNotice("Folder %s would overwrite the consolidated file; writing its files to %s only", dir, r.consolidatedName)
	} else {
		if prev, ok := r.written[outPath]; ok {
			internal.LogNotice("%s from %s overwrites the output of %s", outPath, dir, prev)
			r.res.Overwritten = append(r.res.Overwritten, outPath)
		}
		folderFile, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create folder file: %w", err)
		}
		folderOut = bufio.NewWriter(folderFile)
		r.written[outPath] = dir
	}

	out := FolderOutput{Name: name, Dir: dir, Path: outPath}
	if folderOut != nil {
		err = r.writeFolder(name, files, folderOut, &out)
		err = errors.Join(err, folderOut.Flush(), folderFile.Close())
	} else {
		err = r.writeFolder(name, files, nil, &out)
	}
	if err != nil {
		return err
	}

	if folderOut != nil {
		r.res.Folders = append(r.res.Folders, out)
		fmt.Fprintf(r.out, "Contents of %s files in '%s' saved to '%s'.\n", r.ext, name, outPath)
	}
	r.res.Files += out.Files
	r.res.Bytes += out.Bytes
	internal.Record(internal.HistoryEntry{
		Type:   "output",
		Folder: name,
		Path:   outPath,
		Files:  out.Files,
		Bytes:  out.Bytes,
	})
	return nil
}

// writeFolder appends every file to the folder output (when non-nil)
// and to the consolidated output.
func (r *run) writeFolder(name string, files []string, folderOut io.Writer, out *FolderOutput) error {
	for _, path := range files {
		content, err := readSource(path)
		if err != nil {
			return err
		}
		filename := filepath.Base(path)
		if folderOut != nil {
			if err := writeEntry(folderOut, FolderHeader(filename), content); err != nil {
				return fmt.Errorf("write %s: %w", out.Path, err)
			}
		}
		if err := writeEntry(r.consolidated, ConsolidatedHeader(filename, name), content); err != nil {
			return fmt.Errorf("write %s: %w", r.res.Consolidated, err)
		}
		out.Files++
		out.Bytes += int64(len(content))
		internal.LogDebug("Added %s", path)
	}
	return nil
}
