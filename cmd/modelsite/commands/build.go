package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/modelsite/internal/config"
	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Models  string `help:"Models directory (overrides config)"`
	Output  string `short:"o" help:"Output directory for generated site (overrides config)"`
	Workers int    `help:"Parallel model parsers (overrides build.workers)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config, Overrides{Models: b.Models, Output: b.Output, Workers: b.Workers})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunBuild(ctx, cfg, g.out())
	return err
}

// RunBuild performs one build and prints its summary to out. Metrics are
// exported to the configured textfile whether or not the build succeeded.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer) (*site.BuildReport, error) {
	gen, err := site.NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	var recorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		gen.SetRecorder(recorder)
	}

	report, err := gen.Build(ctx)

	if recorder != nil {
		if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(werr))
		}
	}
	if report != nil {
		_, _ = fmt.Fprintln(out, report.Summary())
		for _, w := range report.ParseWarnings {
			_, _ = fmt.Fprintf(out, "warning: %s: %s\n", w.Model, w.Reason)
		}
	}
	if err != nil && errors.Is(err, context.Canceled) {
		if _, ok := ferrors.AsClassified(err); !ok {
			err = ferrors.RuntimeError("build canceled").WithCause(err).Build()
		}
	}
	if err != nil {
		return report, err
	}
	_, _ = fmt.Fprintf(out, "Site written to %s\n", gen.OutputDir())
	return report, nil
}
