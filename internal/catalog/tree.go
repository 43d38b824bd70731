package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// FolderNode represents one directory level in the index tree.
type FolderNode struct {
	Name     string        // Directory name; empty for the root
	Path     []string      // Segments from the models root
	Children []*FolderNode // Sub-folders, case-insensitive alphabetical
	Models   []*ModelEntry // Models directly in this folder, case-insensitive alphabetical
}

// BuildTree arranges the catalog into a FolderNode tree rooted at the models
// directory. With pruneEmpty, folders holding no models at any depth are dropped.
func BuildTree(cat *Catalog, pruneEmpty bool) *FolderNode {
	root := &FolderNode{}
	if cat == nil {
		return root
	}
	for _, segments := range cat.Folders {
		root.ensure(segments)
	}
	for i := range cat.Models {
		m := &cat.Models[i]
		folder := root.ensure(m.Folders())
		folder.Models = append(folder.Models, m)
	}
	if pruneEmpty {
		root.prune()
	}
	root.sort(cases.Fold())
	return root
}

// ensure returns the node for segments, creating intermediate nodes.
func (n *FolderNode) ensure(segments []string) *FolderNode {
	cur := n
	for i, name := range segments {
		var next *FolderNode
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			next = &FolderNode{Name: name, Path: slices.Clone(segments[:i+1])}
			cur.Children = append(cur.Children, next)
		}
		cur = next
	}
	return cur
}

func (n *FolderNode) prune() {
	kept := n.Children[:0]
	for _, c := range n.Children {
		c.prune()
		if c.ModelCount() > 0 {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

func (n *FolderNode) sort(fold cases.Caser) {
	slices.SortFunc(n.Children, func(a, b *FolderNode) int {
		return compareNames(fold, a.Name, b.Name)
	})
	slices.SortFunc(n.Models, func(a, b *ModelEntry) int {
		return compareNames(fold, a.Name(), b.Name())
	})
	for _, c := range n.Children {
		c.sort(fold)
	}
}

// compareNames orders case-insensitively, falling back to byte order so the
// result is total and stable across runs.
func compareNames(fold cases.Caser, a, b string) int {
	if c := strings.Compare(fold.String(a), fold.String(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ModelCount returns the number of models in this folder and all sub-folders.
func (n *FolderNode) ModelCount() int {
	total := len(n.Models)
	for _, c := range n.Children {
		total += c.ModelCount()
	}
	return total
}

// Depth returns the nesting depth below this node (0 for a leaf folder).
func (n *FolderNode) Depth() int {
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Find returns the node at segments, or nil.
func (n *FolderNode) Find(segments ...string) *FolderNode {
	cur := n
	for _, name := range segments {
		var next *FolderNode
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
