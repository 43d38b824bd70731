package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mstesting "git.home.luguber.info/inful/modelsite/internal/testing"
)

func names(nodes []*FolderNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func modelNames(models []*ModelEntry) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.Name())
	}
	return out
}

func TestBuildTree_MirrorsSource(t *testing.T) {
	tree := mstesting.NewModelTree(t).
		Model("zoology/Bees", "").
		Model("Biology/wolf Sheep", "").
		Model("Biology/Ants", "").
		Model("Biology/Evolution/Bug Hunt", "").
		Model("Top Level", "").
		Dir("Empty/Deeper")

	cat, err := NewScanner().Scan(tree.Root)
	require.NoError(t, err)
	root := BuildTree(cat, false)

	assert.Equal(t, []string{"Biology", "Empty", "zoology"}, names(root.Children), "folders sort case-insensitively")
	assert.Equal(t, []string{"Top Level"}, modelNames(root.Models))

	bio := root.Find("Biology")
	require.NotNil(t, bio)
	assert.Equal(t, []string{"Biology"}, bio.Path)
	assert.Equal(t, []string{"Ants", "wolf Sheep"}, modelNames(bio.Models))
	assert.Equal(t, []string{"Evolution"}, names(bio.Children))
	assert.Equal(t, 3, bio.ModelCount())

	empty := root.Find("Empty", "Deeper")
	require.NotNil(t, empty, "empty folders are kept")
	assert.Equal(t, 0, empty.ModelCount())

	assert.Equal(t, 5, root.ModelCount())
	assert.Equal(t, 2, root.Depth())
	assert.Nil(t, root.Find("Missing"))
}

func TestBuildTree_PruneEmpty(t *testing.T) {
	tree := mstesting.NewModelTree(t).
		Model("Biology/Ants", "").
		Dir("Empty/Deeper").
		Dir("Biology/Nothing")

	cat, err := NewScanner().Scan(tree.Root)
	require.NoError(t, err)
	root := BuildTree(cat, true)

	assert.Equal(t, []string{"Biology"}, names(root.Children))
	assert.Empty(t, root.Find("Biology").Children)
}

func TestBuildTree_SameNameDifferentFolders(t *testing.T) {
	tree := mstesting.NewModelTree(t).
		Model("Biology/Fire", "").
		Model("Physics/Fire", "")

	cat, err := NewScanner().Scan(tree.Root)
	require.NoError(t, err)
	root := BuildTree(cat, false)

	a := root.Find("Biology").Models[0]
	b := root.Find("Physics").Models[0]
	assert.Equal(t, a.Name(), b.Name())
	assert.NotEqual(t, a.RelPath(), b.RelPath(), "display-name twins are told apart by their relative path")
}

func TestBuildTree_Nil(t *testing.T) {
	root := BuildTree(nil, false)
	assert.Equal(t, 0, root.ModelCount())
}

func TestCompareNamesTieBreak(t *testing.T) {
	cat := &Catalog{Models: []ModelEntry{
		{Segments: []string{"ant"}},
		{Segments: []string{"Ant"}},
	}}
	root := BuildTree(cat, false)
	assert.Equal(t, []string{"Ant", "ant"}, modelNames(root.Models))
}
