package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Balanced reports whether fragment closes every element it opens, in order,
// and contains no construct left open at the end of input.
func Balanced(fragment string) bool {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var open []string
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return errors.Is(z.Err(), io.EOF) && len(open) == 0 && consumed == len(fragment)
		}
		raw := z.Raw()
		consumed += len(raw)
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				open = append(open, string(name))
			}
		case html.SelfClosingTagToken:
			// Browsers ignore the slash on non-void elements and leave them open.
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				return false
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(open) == 0 || open[len(open)-1] != string(name) {
				return false
			}
			open = open[:len(open)-1]
		case html.CommentToken:
			if !bytes.HasSuffix(raw, []byte("-->")) {
				return false
			}
		}
	}
}

// Repair parses fragment as the content of a <div> and renders it back,
// closing open elements and dropping stray end tags.
func Repair(fragment string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", fmt.Errorf("parse info fragment: %w", err)
	}
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("render info fragment: %w", err)
		}
	}
	return b.String(), nil
}

// SafeFragment returns fragment unchanged when balanced, repaired otherwise.
func SafeFragment(fragment string) (string, error) {
	if Balanced(fragment) {
		return fragment, nil
	}
	return Repair(fragment)
}
