package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rebuildLog struct {
	mu      sync.Mutex
	reasons []string
}

func (l *rebuildLog) rebuild(_ context.Context, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons = append(l.reasons, reason)
	return nil
}

func (l *rebuildLog) count(reason string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.reasons {
		if r == reason {
			n++
		}
	}
	return n
}

func startWatcher(t *testing.T, opts Options, fn RebuildFunc) {
	t.Helper()
	w, err := New(opts, fn)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give Run a moment to enter its event loop.
	time.Sleep(50 * time.Millisecond)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Dirs: []string{t.TempDir()}}, nil)
	require.Error(t, err)

	_, err = New(Options{}, func(context.Context, string) error { return nil })
	require.Error(t, err)

	_, err = New(Options{Dirs: []string{filepath.Join(t.TempDir(), "missing")}},
		func(context.Context, string) error { return nil })
	require.Error(t, err)
}

func TestWatcher_ModelChangeTriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	log := &rebuildLog{}
	startWatcher(t, Options{Dirs: []string{dir}, Debounce: 20 * time.Millisecond}, log.rebuild)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Fire.nlogox"), []byte("<model/>"), 0o644))

	assert.Eventually(t, func() bool { return log.count(ReasonChange) >= 1 },
		3*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	log := &rebuildLog{}
	startWatcher(t, Options{Dirs: []string{dir}, Debounce: 200 * time.Millisecond}, log.rebuild)

	for i := range 5 {
		name := filepath.Join(dir, "Model"+string(rune('A'+i))+".nlogox")
		require.NoError(t, os.WriteFile(name, []byte("<model/>"), 0o644))
	}

	require.Eventually(t, func() bool { return log.count(ReasonChange) >= 1 },
		3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, log.count(ReasonChange))
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	log := &rebuildLog{}
	startWatcher(t, Options{Dirs: []string{dir}, Debounce: 20 * time.Millisecond}, log.rebuild)

	sub := filepath.Join(dir, "Biology")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return log.count(ReasonChange) >= 1 },
		3*time.Second, 20*time.Millisecond)

	before := log.count(ReasonChange)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Wolf Sheep.nlogox"), []byte("<model/>"), 0o644))
	assert.Eventually(t, func() bool { return log.count(ReasonChange) > before },
		3*time.Second, 20*time.Millisecond)
}

func TestWatcher_ConfigFileOnly(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "modelsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("models: ./models\n"), 0o644))

	log := &rebuildLog{}
	startWatcher(t, Options{Files: []string{cfgPath}, Debounce: 20 * time.Millisecond}, log.rebuild)

	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, log.count(ReasonChange), "unrelated sibling must not trigger")

	require.NoError(t, os.WriteFile(cfgPath, []byte("models: ./other\n"), 0o644))
	assert.Eventually(t, func() bool { return log.count(ReasonChange) >= 1 },
		3*time.Second, 20*time.Millisecond)
}

func TestWatcher_IntervalRebuild(t *testing.T) {
	log := &rebuildLog{}
	startWatcher(t, Options{Interval: 100 * time.Millisecond}, log.rebuild)

	assert.Eventually(t, func() bool { return log.count(ReasonInterval) >= 2 },
		3*time.Second, 20*time.Millisecond)
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"/m/Ants.nlogox":      false,
		"/m/Ants.png":         false,
		"/m/.hidden.nlogox":   true,
		"/m/Ants.nlogox~":     true,
		"/m/.Ants.nlogox.swp": true,
		"/m/Ants.swx":         true,
		"/m/#Ants.nlogox#":    true,
		"/m/Thumbs.db":        true,
		"/m/Ants.tmp":         true,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}
