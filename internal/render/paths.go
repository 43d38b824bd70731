package render

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
)

// Site-relative locations of the fixed outputs. All paths use forward slashes.
const (
	IndexPage      = "index.html"
	StylesheetPath = "styles.css"
	IconPath       = "assets/model.png"
	ModelsDir      = "models"
)

// PagePath is the site-relative path of the model's detail page.
func PagePath(e *catalog.ModelEntry) string {
	return path.Join(ModelsDir, e.RelPath()+".html")
}

// ScreenshotPath is the site-relative path of the copied screenshot.
func ScreenshotPath(e *catalog.ModelEntry) string {
	return path.Join(ModelsDir, e.RelPath()+".png")
}

// ModelFilePath is the site-relative path of the copied model file.
func ModelFilePath(e *catalog.ModelEntry) string {
	return path.Join(ModelsDir, path.Join(e.Folders()...), e.FileName())
}

// toRoot is the relative prefix leading from the model's page back to the site root.
func toRoot(e *catalog.ModelEntry) string {
	return strings.Repeat("../", len(e.Segments))
}

// escapePath percent-escapes each segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
