package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"git.home.luguber.info/inful/modelsite/internal/config"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Models   string        `help:"Models directory (overrides config)"`
	Output   string        `short:"o" help:"Output directory for generated site (overrides config)"`
	Workers  int           `help:"Parallel model parsers (overrides build.workers)"`
	Interval time.Duration `help:"Also rebuild on this interval (e.g. 10m); 0 disables"`
	Debounce time.Duration `help:"Quiet period after a change before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunWatch(ctx, root.Config, w, g.out())
}

// RunWatch builds once and then keeps rebuilding until ctx is canceled. Every
// rebuild reloads the configuration so edits take effect without a restart.
func RunWatch(ctx context.Context, configPath string, w *WatchCmd, out io.Writer) error {
	overrides := Overrides{Models: w.Models, Output: w.Output, Workers: w.Workers}
	cfg, err := LoadConfig(configPath, overrides)
	if err != nil {
		return err
	}
	modelsDir, err := filepath.Abs(cfg.Models)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	rebuild := func(ctx context.Context, reason string) error {
		mu.Lock()
		defer mu.Unlock()
		cfg = reloadConfig(configPath, overrides, cfg, modelsDir)
		slog.Debug("Building site", slog.String("reason", reason), logfields.Path(modelsDir))
		_, err := RunBuild(ctx, cfg, out)
		return err
	}

	if err := rebuild(ctx, "initial"); err != nil {
		slog.Error("Initial build failed; waiting for changes", logfields.Error(err))
	}

	watcher, err := watch.New(watch.Options{
		Dirs:     []string{modelsDir},
		Files:    []string{configPath},
		Debounce: w.Debounce,
		Interval: w.Interval,
	}, rebuild)
	if err != nil {
		return err
	}
	slog.Info("Watching for changes", logfields.Path(modelsDir), slog.String("config", configPath))
	return watcher.Run(ctx)
}

// reloadConfig re-reads the configuration for a rebuild. A load failure keeps
// prev. The models directory stays pinned to the watched tree.
func reloadConfig(path string, o Overrides, prev *config.Config, modelsDir string) *config.Config {
	next, err := LoadConfig(path, o)
	if err != nil {
		slog.Error("Configuration reload failed; keeping previous", logfields.Error(err))
		next = prev
	}
	if abs, _ := filepath.Abs(next.Models); abs != modelsDir {
		slog.Warn("Models directory changed; restart watch to track it", logfields.Path(abs))
		next.Models = modelsDir
	}
	return next
}
