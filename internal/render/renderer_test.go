package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/modelsite/internal/catalog"
	"git.home.luguber.info/inful/modelsite/internal/config"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	require.NoError(t, err)
	return r
}

func parseHTML(t *testing.T, page []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)
	return doc
}

func sampleTree() *catalog.FolderNode {
	cat := &catalog.Catalog{
		Models: []catalog.ModelEntry{
			{Segments: []string{"Biology", "Wolf Sheep Predation"}, SourcePath: "/m/Biology/Wolf Sheep Predation.nlogox"},
			{Segments: []string{"Biology", "ants"}, SourcePath: "/m/Biology/ants.nlogox"},
			{Segments: []string{"Biology", "Evolution", "Bug Hunt"}, SourcePath: "/m/Biology/Evolution/Bug Hunt.nlogox"},
			{Segments: []string{"Top"}, SourcePath: "/m/Top.nlogox"},
		},
		Folders: [][]string{{"Biology"}, {"Biology", "Evolution"}, {"Empty"}},
	}
	return catalog.BuildTree(cat, false)
}

func TestRenderIndex(t *testing.T) {
	r := newRenderer(t, Options{SiteTitle: "Lab <Models>"})

	page, err := r.RenderIndex(sampleTree())
	require.NoError(t, err)
	doc := parseHTML(t, page)

	assert.Equal(t, "Lab <Models>", doc.Find("title").Text())
	assert.Equal(t, "Lab <Models>", doc.Find("header h1").Text())
	assert.Contains(t, string(page), "Lab &lt;Models&gt;")
	assert.Equal(t, "4 models", doc.Find(".stats").Text())
	assert.Equal(t, 2, doc.Find(".action-button").Length())
	assert.Equal(t, "styles.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))

	top := doc.Find(".tree > ul > li > details > summary")
	require.Equal(t, 2, top.Length())
	assert.Equal(t, "📁Biology", top.Eq(0).Text())
	assert.Equal(t, "📁Empty", top.Eq(1).Text())
	assert.Equal(t, 0, doc.Find("details[open]").Length(), "folders start collapsed")

	bio := doc.Find(".tree > ul > li > details").First()
	names := bio.ChildrenFiltered("ul").ChildrenFiltered("li").ChildrenFiltered("a").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"ants", "Wolf Sheep Predation"}, names)
	assert.Equal(t, "Evolution", strings.TrimPrefix(bio.ChildrenFiltered("ul").Find("li > details > summary").First().Text(), "📁"))

	hrefs := doc.Find(".tree a").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	assert.ElementsMatch(t, []string{
		"models/Biology/Evolution/Bug%20Hunt.html",
		"models/Biology/ants.html",
		"models/Biology/Wolf%20Sheep%20Predation.html",
		"models/Top.html",
	}, hrefs)

	link := doc.Find(`.tree a[href="models/Top.html"]`)
	assert.Equal(t, "_blank", link.AttrOr("target", ""))
	assert.Equal(t, "noopener", link.AttrOr("rel", ""))
	assert.Equal(t, IconPath, link.Find("img.file-icon").AttrOr("src", ""))
	assert.Equal(t, 0, doc.Find("footer").Length())
}

func TestRenderIndex_OpenFoldersAndEmpty(t *testing.T) {
	r := newRenderer(t, Options{OpenFolders: true})
	doc := parseHTML(t, must(r.RenderIndex(sampleTree())))
	assert.Equal(t, 2, doc.Find("details[open]").Length(), "only top-level folders open")
	assert.Equal(t, 0, doc.Find(".tree details details[open]").Length())

	doc = parseHTML(t, must(r.RenderIndex(nil)))
	assert.Equal(t, "0 models", doc.Find(".stats").Text())
	assert.Equal(t, 0, doc.Find(".tree li").Length())

	one := catalog.BuildTree(&catalog.Catalog{Models: []catalog.ModelEntry{{Segments: []string{"Solo"}}}}, false)
	doc = parseHTML(t, must(r.RenderIndex(one)))
	assert.Equal(t, "1 model", doc.Find(".stats").Text())
}

func TestRenderModel(t *testing.T) {
	r := newRenderer(t, Options{})
	entry := &catalog.ModelEntry{
		Segments:   []string{"Biology", "Wolf Sheep Predation"},
		SourcePath: "/m/Biology/Wolf Sheep Predation.nlogox",
		Screenshot: "/m/Biology/Wolf Sheep Predation.png",
		Info:       "## WHAT IS IT?\n\nWolves and sheep.",
		InfoStatus: catalog.InfoOK,
		Version:    "NetLogo 7.0.0",
	}

	doc := parseHTML(t, must(r.RenderModel(entry)))

	assert.Equal(t, "Wolf Sheep Predation", doc.Find("title").Text())
	assert.Equal(t, "Wolf Sheep Predation", doc.Find(".model-header h1").Text())
	assert.Equal(t, "NetLogo 7.0.0", doc.Find(".model-version").Text())
	assert.Equal(t, "../../styles.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))
	assert.Equal(t, "../../assets/model.png", doc.Find(`link[rel="icon"]`).AttrOr("href", ""))

	back := doc.Find("a.back-link")
	assert.Equal(t, "../../index.html", back.AttrOr("href", ""))
	assert.Equal(t, "← Back to list", back.Text())

	run := doc.Find("a.run-button")
	assert.Equal(t, "Run on NetLogoWeb", run.Text())
	assert.Equal(t, "https://netlogoweb.org/launch#https://netlogoweb.org/assets/modelslib/Biology/Wolf%20Sheep%20Predation.nlogox", run.AttrOr("href", ""))
	assert.Equal(t, "_blank", run.AttrOr("target", ""))
	assert.Equal(t, "noopener", run.AttrOr("rel", ""))

	img := doc.Find("img.model-screenshot")
	require.Equal(t, 1, img.Length())
	assert.Equal(t, "Wolf%20Sheep%20Predation.png", img.AttrOr("src", ""))
	assert.Equal(t, "Screenshot of Wolf Sheep Predation", img.AttrOr("alt", ""))

	assert.Equal(t, "WHAT IS IT?", doc.Find(".model-info h2").Text())
	assert.Equal(t, "Wolves and sheep.", doc.Find(".model-info p").Text())
	assert.Equal(t, "Wolf%20Sheep%20Predation.nlogox", doc.Find(".model-download a").AttrOr("href", ""))
}

func TestRenderModel_NoScreenshotNoVersion(t *testing.T) {
	r := newRenderer(t, Options{})
	doc := parseHTML(t, must(r.RenderModel(&catalog.ModelEntry{Segments: []string{"Top"}, InfoStatus: catalog.InfoMissing})))

	assert.Equal(t, 0, doc.Find("img").Length())
	assert.Equal(t, 0, doc.Find(".model-version").Length())
	assert.Equal(t, "../styles.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))
	assert.Equal(t, "No info tab found.", doc.Find(".model-info em").Text())
}

func TestRenderModel_EscapesName(t *testing.T) {
	r := newRenderer(t, Options{})
	page := must(r.RenderModel(&catalog.ModelEntry{Segments: []string{`A<script>x</script>`}}))

	assert.NotContains(t, string(page), "<script>x</script>")
	doc := parseHTML(t, page)
	assert.Equal(t, `A<script>x</script>`, doc.Find("h1").Text())
}

func TestInfoHTML(t *testing.T) {
	md := newRenderer(t, Options{InfoFormat: config.InfoFormatMarkdown})
	raw := newRenderer(t, Options{InfoFormat: config.InfoFormatHTML})

	tests := []struct {
		name   string
		r      *Renderer
		entry  catalog.ModelEntry
		want   string
		substr bool
	}{
		{"missing", md, catalog.ModelEntry{InfoStatus: catalog.InfoMissing}, NoInfoHTML, false},
		{"blank", md, catalog.ModelEntry{Info: "  \n", InfoStatus: catalog.InfoOK}, NoInfoHTML, false},
		{"unavailable", md, catalog.ModelEntry{InfoStatus: catalog.InfoUnavailable}, InfoUnavailableHTML, false},
		{"markdown", md, catalog.ModelEntry{Info: "**bold**"}, "<p><strong>bold</strong></p>\n", false},
		{"html verbatim", raw, catalog.ModelEntry{Info: "<p>Hi <b>there</b></p>"}, "<p>Hi <b>there</b></p>", false},
		{"html repaired", raw, catalog.ModelEntry{Info: "<div><p>open"}, "<div><p>open</p></div>", false},
		{"markdown with raw html repaired", md, catalog.ModelEntry{Info: "<div>\n\nloose"}, "</div>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.InfoHTML(&tt.entry)
			require.NoError(t, err)
			if tt.substr {
				assert.Contains(t, string(got), tt.want)
				assert.True(t, Balanced(string(got)))
				return
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRenderModel_UnbalancedInfoCannotEscapeCard(t *testing.T) {
	r := newRenderer(t, Options{InfoFormat: config.InfoFormatHTML})
	page := must(r.RenderModel(&catalog.ModelEntry{
		Segments: []string{"Broken"},
		Info:     "</div></div></main><p>escaped?",
	}))
	doc := parseHTML(t, page)

	assert.Equal(t, 1, doc.Find("main.model-page .model-card .model-info").Length())
	assert.Equal(t, "escaped?", doc.Find(".model-info p").Text())
	assert.Equal(t, 1, doc.Find(".model-card .model-download").Length())
}

func TestRenderModel_SelfClosingInfoCannotSwallowDownload(t *testing.T) {
	r := newRenderer(t, Options{InfoFormat: config.InfoFormatHTML})
	page := must(r.RenderModel(&catalog.ModelEntry{
		Segments: []string{"Slashed"},
		Info:     "<div/>intro<p>text</p>",
	}))
	doc := parseHTML(t, page)

	assert.Equal(t, 1, doc.Find(".model-card .model-download").Length())
	assert.Zero(t, doc.Find(".model-info .model-download").Length())
	assert.Equal(t, "introtext", doc.Find(".model-info").Text())
}

func TestRenderRevisionFooter(t *testing.T) {
	r := newRenderer(t, Options{Revision: "abc1234"})

	doc := parseHTML(t, must(r.RenderIndex(sampleTree())))
	assert.Equal(t, "Built from abc1234", doc.Find("footer.footer").Text())

	doc = parseHTML(t, must(r.RenderModel(&catalog.ModelEntry{Segments: []string{"Top"}})))
	assert.Equal(t, "abc1234", doc.Find("footer code").Text())
}

func TestRender_Deterministic(t *testing.T) {
	r := newRenderer(t, Options{})
	entry := &catalog.ModelEntry{Segments: []string{"A", "B"}, Info: "text"}
	assert.Equal(t, must(r.RenderIndex(sampleTree())), must(r.RenderIndex(sampleTree())))
	assert.Equal(t, must(r.RenderModel(entry)), must(r.RenderModel(entry)))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Site.BaseURL = "https://models.example.org"
	cfg.Index.OpenFolders = true

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, config.SiteLaunchTemplate, opts.LaunchTemplate)
	assert.Equal(t, cfg.Site.Title, opts.SiteTitle)
	assert.True(t, opts.OpenFolders)
}

func TestStaticAssets(t *testing.T) {
	assets, err := StaticAssets("")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, StylesheetPath, assets[0].Path)
	assert.Contains(t, string(assets[0].Content), ".model-card")
	assert.Equal(t, IconPath, assets[1].Path)
	assert.True(t, bytes.HasPrefix(assets[1].Content, []byte("\x89PNG\r\n\x1a\n")))

	custom := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(custom, []byte("custom"), 0o600))
	assets, err = StaticAssets(custom)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(assets[1].Content))

	_, err = StaticAssets(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	e := &catalog.ModelEntry{Segments: []string{"Bio", "Ants"}, SourcePath: "/m/Bio/Ants.NLOGOX"}
	assert.Equal(t, "models/Bio/Ants.html", PagePath(e))
	assert.Equal(t, "models/Bio/Ants.png", ScreenshotPath(e))
	assert.Equal(t, "models/Bio/Ants.NLOGOX", ModelFilePath(e))
	assert.Equal(t, "../../", toRoot(e))
}

func must(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}

func TestWithRevision(t *testing.T) {
	base := newRenderer(t, Options{})
	stamped := base.WithRevision("feedbee")

	doc := parseHTML(t, must(stamped.RenderIndex(nil)))
	assert.Equal(t, "feedbee", doc.Find("footer code").Text())

	doc = parseHTML(t, must(base.RenderIndex(nil)))
	assert.Equal(t, 0, doc.Find("footer").Length(), "original renderer is unchanged")
}
