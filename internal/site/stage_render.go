package site

import (
	"context"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/render"
)

func stageRenderPages(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	bs.Tree = catalog.BuildTree(bs.Catalog, g.cfg.Index.PruneEmpty)
	bs.Report.Folders = countFolders(bs.Tree)

	r := g.renderer
	if bs.Revision != "" {
		r = r.WithRevision(bs.Revision)
	}

	index, err := r.RenderIndex(bs.Tree)
	if err != nil {
		return newFatalStageError(StageRenderPages, ferrors.InternalError("cannot render index").WithCause(err).Build())
	}
	if err := g.writeFile(render.IndexPage, index); err != nil {
		return newFatalStageError(StageRenderPages, err)
	}
	bs.Report.PagesWritten++

	for i := range bs.Catalog.Models {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPages, err)
		}
		e := &bs.Catalog.Models[i]
		page, err := r.RenderModel(e)
		if err != nil {
			return newFatalStageError(StageRenderPages, ferrors.InternalError("cannot render model page").
				WithCause(err).WithContext("model", e.RelPath()).Build())
		}
		if err := g.writeFile(render.PagePath(e), page); err != nil {
			return newFatalStageError(StageRenderPages, err)
		}
		bs.Report.PagesWritten++
	}
	return nil
}

func countFolders(n *catalog.FolderNode) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + countFolders(c)
	}
	return total
}
