package site

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
	"git.home.luguber.info/inful/modelsite/internal/config"
	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/render"
	"git.home.luguber.info/inful/modelsite/internal/retry"
)

// Generator builds the site for one configuration. A Generator runs one build
// at a time; create a new one or call Build again after the previous returned.
type Generator struct {
	cfg       *config.Config
	modelsDir string // final models root (absolute)
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for current build
	scanner   *catalog.Scanner
	renderer  *render.Renderer
	assets    []render.StaticAsset
	recorder  metrics.Recorder
	retry     retry.Policy // filesystem steps of promotion
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Catalog   *catalog.Catalog
	Tree      *catalog.FolderNode
	Report    *BuildReport
	Revision  string
}

// NewGenerator validates the paths in cfg and prepares templates and assets.
func NewGenerator(cfg *config.Config) (*Generator, error) {
	modelsDir, err := filepath.Abs(cfg.Models)
	if err != nil {
		return nil, ferrors.ValidationError("cannot resolve models directory").WithCause(err).Build()
	}
	outputDir, err := filepath.Abs(cfg.Output.Directory)
	if err != nil {
		return nil, ferrors.ValidationError("cannot resolve output directory").WithCause(err).Build()
	}
	if overlaps(modelsDir, outputDir) {
		return nil, ferrors.ValidationError("output directory must not overlap the models directory").
			WithContext("models", modelsDir).WithContext("output", outputDir).Build()
	}
	renderer, err := render.New(render.OptionsFromConfig(cfg))
	if err != nil {
		return nil, ferrors.ValidationError("cannot prepare page templates").WithCause(err).Build()
	}
	assets, err := render.StaticAssets(cfg.Site.Icon)
	if err != nil {
		return nil, ferrors.ConfigError("cannot load site assets").
			WithCause(err).WithContext("field", "site.icon").Build()
	}
	return &Generator{
		cfg:       cfg,
		modelsDir: modelsDir,
		outputDir: filepath.Clean(outputDir),
		scanner:   catalog.NewScanner(),
		renderer:  renderer,
		assets:    assets,
		recorder:  metrics.NoopRecorder{},
		retry:     retry.DefaultPolicy(),
	}, nil
}

// overlaps reports whether one directory equals or contains the other.
func overlaps(a, b string) bool {
	within := func(parent, child string) bool {
		rel, err := filepath.Rel(parent, child)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
	return within(a, b) || within(b, a)
}

// SetRecorder injects a metrics recorder. Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	g.recorder = r
	return g
}

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// ModelsDir returns the absolute models root.
func (g *Generator) ModelsDir() string { return g.modelsDir }

// Build runs the stage pipeline and promotes the result. The report is returned
// even when the build fails; the previous output is left untouched in that case.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport(g.modelsDir, g.outputDir)
	slog.Info("Starting site build", logfields.BuildID(report.BuildID),
		logfields.Path(g.modelsDir), logfields.Output(g.outputDir))

	bs := &BuildState{Generator: g, Report: report}
	stages := NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageScanModels, stageScanModels).
		Add(StageParseModels, stageParseModels).
		Add(StageRenderPages, stageRenderPages).
		Add(StageCopyAssets, stageCopyAssets).
		Build()

	err := runStages(ctx, bs, stages)
	if err == nil {
		if ferr := g.finalizeStaging(); ferr != nil {
			report.Errors = append(report.Errors, ferr)
			err = ferr
		}
	}
	if err != nil {
		g.abortStaging()
	}

	report.finish()
	report.deriveOutcome()
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	g.persistReport(report)

	if err != nil {
		slog.Error("Site build failed", logfields.BuildID(report.BuildID), logfields.Error(err))
		return report, err
	}
	slog.Info("Site build completed", logfields.BuildID(report.BuildID), logfields.Output(g.outputDir),
		slog.Int("models", report.Models), slog.Int("parse_warnings", len(report.ParseWarnings)),
		slog.String("outcome", string(report.Outcome)))
	return report, nil
}

// persistReport writes the report next to, never inside, the site so that the
// output only depends on the inputs.
func (g *Generator) persistReport(r *BuildReport) {
	dir := g.cfg.Report.Path
	if dir == "" {
		return
	}
	if err := r.Persist(dir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Path(dir), logfields.Error(err))
	}
}
