package site

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/modelsite/internal/git"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
)

func stageScanModels(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	cat, err := g.scanner.Scan(g.modelsDir)
	if err != nil {
		return newFatalStageError(StageScanModels, err)
	}
	bs.Catalog = cat

	shots := 0
	for i := range cat.Models {
		if cat.Models[i].HasScreenshot() {
			shots++
		}
	}
	bs.Report.Models = len(cat.Models)
	bs.Report.Screenshots = shots
	g.recorder.SetModels(len(cat.Models), shots)

	if g.cfg.Site.StampRevision {
		bs.Revision = readRevision(g.modelsDir)
		bs.Report.Revision = bs.Revision
	}
	return nil
}

// readRevision returns the short HEAD hash of the repository holding dir, or ""
// when there is none.
func readRevision(dir string) string {
	rev, err := git.ReadRevision(dir)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		slog.Debug("Models directory is not in a git repository; no revision stamp", logfields.Path(dir))
		return ""
	case err != nil:
		slog.Warn("Cannot read models revision", logfields.Path(dir), logfields.Error(err))
		return ""
	}
	return rev.Short()
}
