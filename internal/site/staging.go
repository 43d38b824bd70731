package site

import (
	"fmt"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
)

const (
	stageSuffix = "_stage"
	prevSuffix  = ".prev"
)

// buildRoot returns the directory active stages write into.
func (g *Generator) buildRoot() string {
	if g.stageDir != "" {
		return g.stageDir
	}
	return g.outputDir
}

// beginStaging creates a fresh sibling staging directory <output>_stage.
func (g *Generator) beginStaging() error {
	stage := g.outputDir + stageSuffix
	if err := os.RemoveAll(stage); err != nil {
		return ferrors.WriteError("cannot clear stale staging directory").
			WithCause(err).WithContext("path", stage).Build()
	}
	if err := os.MkdirAll(stage, dirPerm); err != nil {
		return ferrors.WriteError("cannot create staging directory").
			WithCause(err).WithContext("path", stage).Build()
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", logfields.Path(stage), logfields.Output(g.outputDir))
	return nil
}

// finalizeStaging promotes the staging directory to the output location.
//  1. Move an existing output to <output>.prev (replacing an older backup).
//  2. Rename staging to output.
//  3. Remove the backup unless the configuration keeps it.
//
// If step 2 fails the backup is moved back so the previous site stays in place.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return ferrors.InternalError("no staging directory initialized").Build()
	}
	if _, err := os.Stat(g.stageDir); err != nil {
		return ferrors.WriteError("staging directory missing").
			WithCause(err).WithContext("path", g.stageDir).Build()
	}

	prev := g.outputDir + prevSuffix
	// Removal can fail transiently while files in the backup are still in use.
	if err := g.retry.Do(func() error { return os.RemoveAll(prev) }); err != nil {
		return ferrors.WriteError("cannot remove previous backup").
			WithCause(err).WithContext("path", prev).Build()
	}
	hadOutput := false
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return ferrors.WriteError("cannot move existing output aside").
				WithCause(err).WithContext("path", g.outputDir).Build()
		}
		hadOutput = true
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		if hadOutput {
			if rerr := os.Rename(prev, g.outputDir); rerr != nil {
				slog.Error("Failed to restore previous output", logfields.Path(prev), logfields.Error(rerr))
			}
		}
		return ferrors.WriteError("cannot promote staging directory").
			WithCause(err).WithContext("path", g.outputDir).Build()
	}
	g.stageDir = ""
	if hadOutput && !g.cfg.Output.KeepPrevious {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	slog.Info("Promoted staging directory", logfields.Output(g.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	dir := g.stageDir
	g.stageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", logfields.Path(dir), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", logfields.Path(dir))
}

func writeErr(msg, path string, err error) error {
	return ferrors.WriteError(msg).WithCause(fmt.Errorf("%s: %w", path, err)).WithContext("path", path).Build()
}
