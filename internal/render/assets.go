package render

import (
	"embed"
	"fmt"
	"os"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/styles.css
var stylesheet []byte

//go:embed assets/model.png
var defaultIcon []byte

// StaticAsset is a fixed file written to the site root.
type StaticAsset struct {
	Path    string // Site-relative, forward slashes
	Content []byte
}

// StaticAssets returns the stylesheet and the model icon. iconPath replaces the
// embedded icon when non-empty.
func StaticAssets(iconPath string) ([]StaticAsset, error) {
	icon := defaultIcon
	if iconPath != "" {
		data, err := os.ReadFile(iconPath)
		if err != nil {
			return nil, fmt.Errorf("read site icon: %w", err)
		}
		icon = data
	}
	return []StaticAsset{
		{Path: StylesheetPath, Content: stylesheet},
		{Path: IconPath, Content: icon},
	}, nil
}
