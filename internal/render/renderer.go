// Package render turns the model catalog into HTML pages.
//
// Pages are produced by html/template from embedded templates; plain text is
// escaped by the template engine while the Info fragment is inserted as markup
// after being normalized by SafeFragment.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
	"git.home.luguber.info/inful/modelsite/internal/config"
	"git.home.luguber.info/inful/modelsite/internal/markdown"
)

// Placeholders shown when a model has no usable Info.
const (
	NoInfoHTML          = "<p><em>No info tab found.</em></p>"
	InfoUnavailableHTML = "<p><em>Info content is unavailable.</em></p>"
)

// Options configures a Renderer.
type Options struct {
	SiteTitle      string
	InfoFormat     config.InfoFormat
	LaunchTemplate string
	SiteURL        string
	OpenFolders    bool
	Revision       string // Short source revision for the footer; empty omits it
}

// OptionsFromConfig derives renderer options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SiteTitle:      cfg.Site.Title,
		InfoFormat:     cfg.Info.Format,
		LaunchTemplate: cfg.LaunchTemplate(),
		SiteURL:        cfg.Site.BaseURL,
		OpenFolders:    cfg.Index.OpenFolders,
	}
}

// Renderer produces the index and detail pages. It is safe for concurrent use.
type Renderer struct {
	opts     Options
	pages    *template.Template
	launcher *Launcher
	md       *markdown.Converter
}

// New parses the page templates and the launch URL template.
func New(opts Options) (*Renderer, error) {
	if opts.SiteTitle == "" {
		opts.SiteTitle = config.DefaultSiteTitle
	}
	if opts.LaunchTemplate == "" {
		opts.LaunchTemplate = config.DefaultLaunchTemplate
	}
	pages, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	launcher, err := NewLauncher(opts.LaunchTemplate, opts.SiteURL)
	if err != nil {
		return nil, err
	}
	r := &Renderer{opts: opts, pages: pages, launcher: launcher}
	if config.NormalizeInfoFormat(string(opts.InfoFormat)) != config.InfoFormatHTML {
		r.md = markdown.New(markdown.DefaultOptions())
	}
	return r, nil
}

// WithRevision returns a copy of r that stamps rev into the page footer.
func (r *Renderer) WithRevision(rev string) *Renderer {
	c := *r
	c.opts.Revision = rev
	return &c
}

type indexPage struct {
	Title      string
	Icon       string
	Stylesheet string
	Count      int
	Root       folderView
	Revision   string
}

type folderView struct {
	Name     string
	Open     bool
	Children []folderView
	Models   []modelLink
}

type modelLink struct {
	Name string
	Href string
	Icon string
}

type modelPage struct {
	Name       string
	Version    string
	Icon       string
	Stylesheet string
	Back       string
	Screenshot string
	LaunchURL  string
	Download   string
	Info       template.HTML
	Revision   string
}

// RenderIndex renders index.html for the folder tree rooted at root.
func (r *Renderer) RenderIndex(root *catalog.FolderNode) ([]byte, error) {
	if root == nil {
		root = &catalog.FolderNode{}
	}
	data := indexPage{
		Title:      r.opts.SiteTitle,
		Icon:       IconPath,
		Stylesheet: StylesheetPath,
		Count:      root.ModelCount(),
		Root:       r.folderView(root, 0),
		Revision:   r.opts.Revision,
	}
	return r.execute("index", data)
}

func (r *Renderer) folderView(n *catalog.FolderNode, depth int) folderView {
	v := folderView{Name: n.Name, Open: r.opts.OpenFolders && depth == 1}
	for _, c := range n.Children {
		v.Children = append(v.Children, r.folderView(c, depth+1))
	}
	for _, m := range n.Models {
		v.Models = append(v.Models, modelLink{
			Name: m.Name(),
			Href: escapePath(PagePath(m)),
			Icon: IconPath,
		})
	}
	return v
}

// RenderModel renders the detail page of e.
func (r *Renderer) RenderModel(e *catalog.ModelEntry) ([]byte, error) {
	info, err := r.InfoHTML(e)
	if err != nil {
		return nil, err
	}
	launch, err := r.launcher.URL(e)
	if err != nil {
		return nil, err
	}
	prefix := toRoot(e)
	data := modelPage{
		Name:       e.Name(),
		Version:    e.Version,
		Icon:       prefix + IconPath,
		Stylesheet: prefix + StylesheetPath,
		Back:       prefix + IndexPage,
		LaunchURL:  launch,
		Download:   url.PathEscape(path.Base(ModelFilePath(e))),
		Info:       info,
		Revision:   r.opts.Revision,
	}
	if e.HasScreenshot() {
		data.Screenshot = url.PathEscape(path.Base(ScreenshotPath(e)))
	}
	return r.execute("model", data)
}

// InfoHTML converts the Info content of e into the fragment embedded in its page.
func (r *Renderer) InfoHTML(e *catalog.ModelEntry) (template.HTML, error) {
	if strings.TrimSpace(e.Info) == "" {
		if e.InfoStatus == catalog.InfoUnavailable {
			return template.HTML(InfoUnavailableHTML), nil //nolint:gosec // constant markup
		}
		return template.HTML(NoInfoHTML), nil //nolint:gosec // constant markup
	}
	fragment := e.Info
	if r.md != nil {
		out, err := r.md.Convert([]byte(e.Info))
		if err != nil {
			return "", fmt.Errorf("render info of %s: %w", e.RelPath(), err)
		}
		fragment = string(out)
	}
	safe, err := SafeFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("render info of %s: %w", e.RelPath(), err)
	}
	return template.HTML(safe), nil //nolint:gosec // Info is trusted model content, balanced above
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s page: %w", name, err)
	}
	return buf.Bytes(), nil
}
