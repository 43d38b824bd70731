package site

import (
	"context"

	"git.home.luguber.info/inful/modelsite/internal/render"
)

// stageCopyAssets writes the static assets and copies each model file and its
// screenshot next to the model's page.
func stageCopyAssets(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	for _, a := range g.assets {
		if err := g.writeFile(a.Path, a.Content); err != nil {
			return newFatalStageError(StageCopyAssets, err)
		}
		bs.Report.FilesCopied++
	}
	for i := range bs.Catalog.Models {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageCopyAssets, err)
		}
		e := &bs.Catalog.Models[i]
		if err := g.copyFile(e.SourcePath, render.ModelFilePath(e)); err != nil {
			return newFatalStageError(StageCopyAssets, err)
		}
		bs.Report.FilesCopied++
		if !e.HasScreenshot() {
			continue
		}
		if err := g.copyFile(e.Screenshot, render.ScreenshotPath(e)); err != nil {
			return newFatalStageError(StageCopyAssets, err)
		}
		bs.Report.FilesCopied++
	}
	return nil
}
