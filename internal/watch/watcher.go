// Package watch re-runs the full site build when model sources or the
// configuration change, and optionally on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/modelsite/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Trigger reasons passed to the rebuild function.
const (
	ReasonChange   = "change"
	ReasonInterval = "interval"
)

// RebuildFunc performs one full build. Errors are logged and the loop continues.
type RebuildFunc func(ctx context.Context, reason string) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched recursively; directories created later are added on the fly.
	Dirs []string
	// Files are watched through their parent directory and matched by name.
	Files    []string
	Debounce time.Duration
	// Interval > 0 schedules a periodic rebuild in addition to change detection.
	Interval time.Duration
}

// Watcher turns filesystem events and timer ticks into serialized rebuilds.
type Watcher struct {
	opts    Options
	rebuild RebuildFunc
	fsw     *fsnotify.Watcher
	sched   gocron.Scheduler
	files   map[string]struct{}

	mu    sync.Mutex
	timer *time.Timer
	req   chan string
}

// New creates a Watcher and registers every directory to watch.
func New(opts Options, rebuild RebuildFunc) (*Watcher, error) {
	if rebuild == nil {
		return nil, errors.New("watch: rebuild function is required")
	}
	if len(opts.Dirs) == 0 && len(opts.Files) == 0 && opts.Interval <= 0 {
		return nil, errors.New("watch: nothing to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		opts:    opts,
		rebuild: rebuild,
		fsw:     fsw,
		files:   make(map[string]struct{}),
		req:     make(chan string, 1),
	}

	for _, dir := range opts.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		if err := addDirsRecursive(fsw, abs); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	for _, file := range opts.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", file, err)
		}
		// The parent survives editors that replace the file by rename.
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
		w.files[abs] = struct{}{}
	}

	if opts.Interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
		}
		if _, err := s.NewJob(
			gocron.DurationJob(opts.Interval),
			gocron.NewTask(w.request, ReasonInterval),
			gocron.WithName("periodic-rebuild"),
		); err != nil {
			_ = s.Shutdown()
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
		}
		w.sched = s
	}
	return w, nil
}

// Run blocks until ctx is canceled, running rebuilds one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if w.sched != nil {
		slog.Info("Starting rebuild scheduler", slog.Duration("interval", w.opts.Interval))
		w.sched.Start()
	}

	go w.buildLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) buildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.req:
			if ctx.Err() != nil {
				return
			}
			slog.Info("Rebuilding site", slog.String("reason", reason))
			if err := w.rebuild(ctx, reason); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if len(w.files) > 0 {
		if _, ok := w.files[ev.Name]; ok {
			slog.Debug("Config change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			w.trigger()
			return
		}
		if w.inFileDirOnly(ev.Name) {
			return
		}
	}
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fsw, ev.Name)
		}
	}
	slog.Debug("Model change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

// inFileDirOnly reports whether path lives in a directory watched only for a
// named file, so unrelated siblings of the config file do not cause rebuilds.
func (w *Watcher) inFileDirOnly(path string) bool {
	dir := filepath.Dir(path)
	for _, root := range w.opts.Dirs {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if dir == abs || strings.HasPrefix(dir, abs+string(filepath.Separator)) {
			return false
		}
	}
	for f := range w.files {
		if filepath.Dir(f) == dir {
			return true
		}
	}
	return false
}

// trigger debounces bursts of events into one rebuild request.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request(ReasonChange) })
}

// request queues a rebuild; a pending request absorbs further ones.
func (w *Watcher) request(reason string) {
	select {
	case w.req <- reason:
	default:
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.sched != nil {
		if err := w.sched.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	if err := w.fsw.Close(); err != nil {
		slog.Warn("Error closing file watcher", logfields.Error(err))
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Folder(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden entries and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
