// Package nlogox extracts the metadata modelsite needs from NetLogo .nlogox files.
//
// A model file is an XML document; the Info tab is stored as character data
// (normally a CDATA section) of an <info> element. The parser does not interpret
// the Info content: it is returned as stored, trimmed of surrounding whitespace.
package nlogox

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
)

// Model is the metadata extracted from one model file.
type Model struct {
	Name    string // File stem
	Version string // <model version="..."> attribute; empty when absent
	Info    string // Info tab content, trimmed
}

// infoFallback finds the Info element in documents the tokenizer gave up on.
var infoFallback = regexp.MustCompile(`(?is)<info(?:\s[^>]*)?>\s*(?:<!\[CDATA\[(.*?)\]\]>|([^<]*))\s*</info>`)

// ParseFile reads and parses the model at path. The returned Model always carries
// Name, even when err is non-nil; errors are non-fatal ParseErrors.
func ParseFile(path string) (Model, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{Name: name}, ferrors.ParseError("cannot read model").
			WithCause(fmt.Errorf("%w: %w", ErrReadFailed, err)).WithContext("path", path).Build()
	}
	m, err := Parse(data)
	m.Name = name
	if err != nil {
		return m, ferrors.ParseError("cannot extract info").
			WithCause(err).WithContext("path", path).Build()
	}
	return m, nil
}

// Parse extracts the version and Info content from a model document.
func Parse(data []byte) (Model, error) {
	m, found, tokErr := scan(data)
	if found {
		return m, nil
	}
	if tokErr != nil {
		if info, ok := fallbackInfo(data); ok {
			m.Info = info
			return m, nil
		}
		return m, fmt.Errorf("%w: %w", ErrMalformed, tokErr)
	}
	return m, ErrInfoMissing
}

// scan walks the token stream until the first <info> element has been read.
func scan(data []byte) (m Model, found bool, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	sawRoot := false
	for {
		tok, terr := dec.Token()
		if terr != nil {
			if errors.Is(terr, io.EOF) {
				return m, false, nil
			}
			return m, false, terr
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			sawRoot = true
			if strings.EqualFold(start.Name.Local, "model") {
				m.Version = attr(start, "version")
			}
		}
		if strings.EqualFold(start.Name.Local, "info") {
			text, rerr := readText(dec)
			if rerr != nil {
				return m, false, rerr
			}
			m.Info = clean(text)
			return m, true, nil
		}
	}
}

// readText collects character data up to the end of the current element.
func readText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

func fallbackInfo(data []byte) (string, bool) {
	match := infoFallback.FindSubmatch(data)
	if match == nil {
		return "", false
	}
	if match[1] != nil {
		return clean(string(match[1])), true
	}
	return clean(string(match[2])), true
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// clean drops invalid UTF-8 and surrounding whitespace.
func clean(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, ""))
}
