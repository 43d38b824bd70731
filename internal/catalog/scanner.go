package catalog

import (
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
)

// Catalog is the result of a full scan.
type Catalog struct {
	Root    string       // Absolute models root
	Models  []ModelEntry // Walk order (lexical by path)
	Folders [][]string   // Every directory below the root as segments, walk order
}

// Scanner discovers models below a root directory.
type Scanner struct {
	// IncludeHidden disables skipping of dot-files and dot-directories.
	IncludeHidden bool
}

// NewScanner creates a scanner with default settings.
func NewScanner() *Scanner { return &Scanner{} }

// Models returns a lazy sequence of the models below root. An unusable root yields a
// single ScanError and ends the sequence. Breaking out of the loop stops the walk.
func (s *Scanner) Models(root string) iter.Seq2[ModelEntry, error] {
	return func(yield func(ModelEntry, error) bool) {
		absRoot, err := resolveRoot(root)
		if err != nil {
			yield(ModelEntry{}, err)
			return
		}
		stopped := false
		err = s.walk(absRoot, nil, func(e ModelEntry) bool {
			if !yield(e, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(ModelEntry{}, err)
		}
	}
}

// Scan walks root and collects every model and directory.
func (s *Scanner) Scan(root string) (*Catalog, error) {
	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{Root: absRoot}
	seen := make(map[string]string)
	var collision error

	err = s.walk(absRoot,
		func(segments []string) { cat.Folders = append(cat.Folders, segments) },
		func(e ModelEntry) bool {
			if prev, dup := seen[e.Key()]; dup {
				collision = ferrors.WrapError(fmt.Errorf("%w: %s and %s", ErrPathCollision, prev, e.SourcePath),
					ferrors.CategoryScan, "two model files map to the same page").
					Fatal().WithContext("model", e.RelPath()).Build()
				return false
			}
			seen[e.Key()] = e.SourcePath
			cat.Models = append(cat.Models, e)
			return true
		})
	if collision != nil {
		return nil, collision
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Models discovered", logfields.Path(absRoot), logfields.Count(len(cat.Models)), slog.Int("folders", len(cat.Folders)))
	return cat, nil
}

// walk visits directories and model files below absRoot in lexical order.
func (s *Scanner) walk(absRoot string, onDir func([]string), onModel func(ModelEntry) bool) error {
	err := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWalkFailed, p, err)
		}
		if p == absRoot {
			return nil
		}
		if !s.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWalkFailed, p, err)
		}
		segments := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if onDir != nil {
				onDir(segments)
			}
			return nil
		}
		if !isModelFile(d.Name()) {
			return nil
		}

		stem := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		segments[len(segments)-1] = stem
		entry := ModelEntry{
			Segments:   segments,
			SourcePath: p,
			Screenshot: findScreenshot(filepath.Dir(p), stem),
		}
		slog.Debug("Discovered model", logfields.Model(stem), logfields.Path(rel), slog.Bool("screenshot", entry.HasScreenshot()))
		if !onModel(entry) {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryScan, "cannot enumerate models").
			Fatal().WithContext("root", absRoot).Build()
	}
	return nil
}

func resolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryScan, "invalid models path").
			Fatal().WithContext("root", root).Build()
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		cause := fmt.Errorf("%w: %w", ErrRootNotFound, err)
		return "", ferrors.WrapError(cause, ferrors.CategoryScan, fmt.Sprintf("models directory not found: %s", root)).
			Fatal().WithContext("root", absRoot).Build()
	}
	if !info.IsDir() {
		return "", ferrors.WrapError(ErrRootNotDir, ferrors.CategoryScan, fmt.Sprintf("models path is not a directory: %s", root)).
			Fatal().WithContext("root", absRoot).Build()
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		cause := fmt.Errorf("%w: %w", ErrWalkFailed, err)
		return "", ferrors.WrapError(cause, ferrors.CategoryScan, fmt.Sprintf("models directory not readable: %s", root)).
			Fatal().WithContext("root", absRoot).Build()
	}
	return absRoot, nil
}

func isModelFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ModelExt)
}

// findScreenshot looks for <stem>.png next to the model, accepting an upper-case extension.
func findScreenshot(dir, stem string) string {
	for _, ext := range []string{".png", ".PNG"} {
		candidate := filepath.Join(dir, stem+ext)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
