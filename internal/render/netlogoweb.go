package render

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
)

// LaunchData is the input of the NetLogoWeb URL template.
type LaunchData struct {
	Path    string // Escaped model path relative to the models root, extension included
	SiteURL string // site.base_url without trailing slash
	Name    string // Display name, unescaped
}

// Launcher builds "Run on NetLogoWeb" links.
type Launcher struct {
	tmpl    *template.Template
	siteURL string
}

// NewLauncher parses the URL template.
func NewLauncher(urlTemplate, siteURL string) (*Launcher, error) {
	t, err := template.New("netlogoweb").Option("missingkey=error").Parse(urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse netlogoweb url template: %w", err)
	}
	return &Launcher{tmpl: t, siteURL: strings.TrimRight(siteURL, "/")}, nil
}

// URL returns the launch link for e.
func (l *Launcher) URL(e *catalog.ModelEntry) (string, error) {
	data := LaunchData{
		Path:    escapePath(path.Join(path.Join(e.Folders()...), e.FileName())),
		SiteURL: l.siteURL,
		Name:    e.Name(),
	}
	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render netlogoweb url for %s: %w", e.RelPath(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
