// Package watch keeps converted mindmaps in step with their sources.
//
// A markdown source is exported next to itself as a markmap HTML page and
// an HTML source is extracted back to markdown. Sources are polled; the
// state file records what each one looked like when it was last converted
// so unchanged files are skipped.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/export"
	"github.com/gerunddev/marky/internal/extract"
	"github.com/gerunddev/marky/internal/logger"
	"github.com/gerunddev/marky/internal/state"
	"github.com/gerunddev/marky/internal/tree"
)

// Watcher converts changed sources on every pass
type Watcher struct {
	Sources   []string
	Interval  time.Duration
	StatePath string
	Export    export.Options

	state *state.State
	log   *logger.Logger
}

// Result represents the result of one pass
type Result struct {
	Processed []string
	Skipped   int
	Errors    []error
	StartTime time.Time
	EndTime   time.Time
}

// New creates a watcher, loading the state file at statePath
func New(sources []string, interval time.Duration, statePath string, log *logger.Logger) (*Watcher, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources to watch")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	if log == nil {
		log = logger.Discard()
	}

	st, err := state.Load(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return &Watcher{
		Sources:   sources,
		Interval:  interval,
		StatePath: statePath,
		state:     st,
		log:       log,
	}, nil
}

// State returns the conversion state
func (w *Watcher) State() *state.State {
	return w.state
}

// OutputPath returns where source is converted to, or "" for unsupported files
func OutputPath(source string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(source, ext)

	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return base + ".html"
	case ".html", ".htm":
		return base + ".md"
	}
	return ""
}

// ScanDirectory scans a directory for files with given extension.
// The comparison ignores case.
func ScanDirectory(dir string, ext string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Files expands the sources into the list of files to convert.
// Directories contribute their markdown files only, so the pages exported
// into them are never picked up as sources.
func (w *Watcher) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
	}

	for _, source := range w.Sources {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", source, err)
		}

		if !info.IsDir() {
			if OutputPath(source) == "" {
				return nil, fmt.Errorf("unsupported file type: %s", source)
			}
			add(source)
			continue
		}

		for _, ext := range []string{".md", ".markdown"} {
			found, err := ScanDirectory(source, ext)
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", source, err)
			}
			for _, f := range found {
				add(f)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Once performs a single pass over every source and saves the state
func (w *Watcher) Once() (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
	}

	files, err := w.Files()
	if err != nil {
		return nil, err
	}

	for source := range w.state.Files {
		if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
			w.state.Forget(source)
			w.log.Skipped(source, "source removed")
		}
	}

	outputs := make(map[string]bool)
	for source, fs := range w.state.Files {
		if fs.Output != "" && source != fs.Output {
			outputs[fs.Output] = true
		}
	}

	for _, source := range files {
		if outputs[source] {
			w.log.Skipped(source, "output of another source")
			result.Skipped++
			continue
		}

		changed, err := w.state.HasChanged(source)
		if err != nil {
			w.log.FileError(source, err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", source, err))
			continue
		}
		if !changed {
			w.log.Skipped(source, "unchanged")
			result.Skipped++
			continue
		}

		dest, err := w.convert(source)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", source, err))
			continue
		}

		if err := w.state.Update(source, dest); err != nil {
			w.log.StateError("update", err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", source, err))
			continue
		}
		result.Processed = append(result.Processed, source)
	}

	if err := w.state.Save(w.StatePath); err != nil {
		w.log.StateError("save", err)
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	result.EndTime = time.Now()
	w.log.WatchCompleted(len(result.Processed), result.Skipped, len(result.Errors), result.Duration())
	return result, nil
}

// Run performs a pass immediately and then every Interval until ctx is done.
// File system events on the sources trigger an early pass. onPass, when set,
// receives every result.
func (w *Watcher) Run(ctx context.Context, onPass func(*Result, error)) error {
	w.log.WatchStarted(len(w.Sources), w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	events, errs, closeNotify := w.notify()
	defer closeNotify()

	for {
		result, err := w.Once()
		if err != nil {
			w.log.Error("watch pass failed", "error", err)
		}
		if onPass != nil {
			onPass(result, err)
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				break wait
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if w.relevant(ev) {
					break wait
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				w.log.Warn("file notification error", "error", err)
			}
		}
	}
}

// notify subscribes to file system events for every source. Without
// notifications the watcher only polls.
func (w *Watcher) notify() (<-chan fsnotify.Event, <-chan error, func()) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Warn("file notifications unavailable, polling only", "error", err)
		return nil, nil, func() {}
	}

	for _, source := range w.Sources {
		info, err := os.Stat(source)
		if err != nil {
			continue
		}

		dirs := []string{filepath.Dir(source)}
		if info.IsDir() {
			dirs = dirs[:0]
			_ = filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
				if err == nil && fi.IsDir() {
					dirs = append(dirs, path)
				}
				return nil
			})
		}

		for _, dir := range dirs {
			if err := fw.Add(dir); err != nil {
				w.log.Warn("failed to watch directory", "dir", dir, "error", err)
			}
		}
	}

	return fw.Events, fw.Errors, func() { fw.Close() }
}

// relevant reports whether an event may change what a pass does
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Chmod) {
		return false
	}

	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".md", ".markdown":
		return true
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	for _, source := range w.Sources {
		if s, err := filepath.Abs(source); err == nil && s == abs {
			return true
		}
	}
	return false
}

// convert writes the conversion of source and returns the destination
func (w *Watcher) convert(source string) (string, error) {
	dest := OutputPath(source)
	if dest == "" {
		return "", fmt.Errorf("unsupported file type")
	}

	data, err := os.ReadFile(source)
	if err != nil {
		w.log.FileError(source, err)
		return "", err
	}

	var out string
	var nodes int

	switch filepath.Ext(dest) {
	case ".html":
		doc := convert.ParseDocument(string(data))
		opts := w.Export
		if opts.Title == "" {
			opts.Title = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		}
		out, err = export.Document(doc, opts)
		if err != nil {
			w.log.FileError(source, err)
			return "", err
		}
		nodes = tree.Count(doc.Roots)
	default:
		res, err := extract.Extract(string(data))
		if err != nil {
			var extractErr *extract.ExtractionError
			if errors.As(err, &extractErr) {
				w.log.ExtractionFailed(source, extractErr.Diagnostics)
			} else {
				w.log.FileError(source, err)
			}
			return "", err
		}
		w.log.ExtractionSucceeded(source, res.Strategy, tree.Count(res.Roots))
		out = res.Markdown
		nodes = tree.Count(res.Roots)
	}

	if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
		w.log.FileError(dest, err)
		return "", err
	}

	w.log.Converted(source, dest, nodes)
	return dest, nil
}

// Duration returns how long the pass took
func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// String returns a human-readable summary of the pass
func (r *Result) String() string {
	return fmt.Sprintf(
		"Watch pass complete: %d files converted, %d skipped, %d errors (took %v)",
		len(r.Processed),
		r.Skipped,
		len(r.Errors),
		r.Duration().Round(time.Millisecond),
	)
}
