package config

import "git.home.luguber.info/inful/modelsite/internal/foundation/normalization"

// InfoFormat selects how the Info tab text is interpreted.
type InfoFormat string

const (
	InfoFormatMarkdown InfoFormat = "markdown" // NetLogo stores Info as markdown
	InfoFormatHTML     InfoFormat = "html"     // embed as-is
)

var infoFormats = normalization.NewNormalizer(map[string]InfoFormat{
	"markdown": InfoFormatMarkdown,
	"md":       InfoFormatMarkdown,
	"html":     InfoFormatHTML,
	"raw":      InfoFormatHTML,
}, "")

// NormalizeInfoFormat maps user input onto a known format. Unknown values return "".
func NormalizeInfoFormat(raw string) InfoFormat {
	return infoFormats.Normalize(raw)
}

// InfoFormatNames lists the accepted info.format spellings.
func InfoFormatNames() []string { return infoFormats.ValidKeys() }
