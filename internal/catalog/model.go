package catalog

import (
	"path"
	"path/filepath"
	"strings"
)

// ModelExt is the NetLogo model file extension. Matching is case-insensitive.
const ModelExt = ".nlogox"

// InfoStatus records what the parser found in the Info tab.
type InfoStatus string

const (
	InfoPending     InfoStatus = ""            // not parsed yet
	InfoOK          InfoStatus = "ok"          // Info element found (may still be blank)
	InfoMissing     InfoStatus = "missing"     // file parsed, no Info element
	InfoUnavailable InfoStatus = "unavailable" // file could not be read or parsed
)

// ModelEntry represents one discovered model.
type ModelEntry struct {
	Segments   []string   // Folder names below the root followed by the file stem
	SourcePath string     // Absolute path to the .nlogox file
	Screenshot string     // Absolute path to the sibling .png; empty when absent
	Info       string     // Info tab content as stored in the model
	InfoStatus InfoStatus // Outcome of Info extraction
	Version    string     // NetLogo version recorded in the model, if any
}

// Name is the display name: the file stem.
func (e ModelEntry) Name() string {
	if len(e.Segments) == 0 {
		return ""
	}
	return e.Segments[len(e.Segments)-1]
}

// Folders returns the folder segments leading to the model.
func (e ModelEntry) Folders() []string {
	if len(e.Segments) == 0 {
		return nil
	}
	return e.Segments[:len(e.Segments)-1]
}

// FileName is the model file name as found on disk, extension included.
func (e ModelEntry) FileName() string {
	if e.SourcePath == "" {
		return e.Name() + ModelExt
	}
	return filepath.Base(e.SourcePath)
}

// RelPath is the slash-separated relative path without extension, e.g. "Biology/Wolf Sheep".
func (e ModelEntry) RelPath() string { return path.Join(e.Segments...) }

// HasScreenshot reports whether a sibling screenshot was found.
func (e ModelEntry) HasScreenshot() bool { return e.Screenshot != "" }

// Key is the identity used for collision detection and ordering.
func (e ModelEntry) Key() string { return strings.Join(e.Segments, "/") }
