package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/nlogox"
)

// ErrInfoDegraded marks a parse stage that rendered some models without Info.
var ErrInfoDegraded = errors.New("models rendered without info")

type parseResult struct {
	model nlogox.Model
	err   error
}

// stageParseModels extracts the Info of every model. Results are stored by scan
// index, so output order does not depend on which parser finishes first.
func stageParseModels(ctx context.Context, bs *BuildState) error {
	models := bs.Catalog.Models
	results := make([]parseResult, len(models))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, bs.Generator.cfg.Build.Workers))
	for i := range models {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			m, err := nlogox.ParseFile(models[i].SourcePath)
			results[i] = parseResult{model: m, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return newCanceledStageError(StageParseModels, err)
	}

	degraded := 0
	for i := range models {
		if applyParseResult(&models[i], results[i], bs.Report) {
			degraded++
		}
	}
	bs.Generator.recorder.IncParseWarnings(degraded)
	if degraded > 0 {
		return newWarnStageError(StageParseModels, fmt.Errorf("%w: %d of %d", ErrInfoDegraded, degraded, len(models)))
	}
	return nil
}

// applyParseResult copies what the parser found into e. It reports whether the
// model is rendered without Info.
func applyParseResult(e *catalog.ModelEntry, res parseResult, report *BuildReport) bool {
	e.Version = res.model.Version
	if res.err == nil {
		e.Info = res.model.Info
		e.InfoStatus = catalog.InfoOK
		return false
	}
	e.Info = ""
	if errors.Is(res.err, nlogox.ErrInfoMissing) {
		e.InfoStatus = catalog.InfoMissing
	} else {
		e.InfoStatus = catalog.InfoUnavailable
	}
	report.ParseWarnings = append(report.ParseWarnings, ParseWarning{
		Model:  e.RelPath(),
		Path:   e.SourcePath,
		Reason: res.err.Error(),
	})
	slog.Warn("Rendering model without Info", logfields.Model(e.RelPath()), logfields.Path(e.SourcePath),
		logfields.Error(res.err))
	return true
}
