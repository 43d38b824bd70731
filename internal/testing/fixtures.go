package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PNGBytes is a minimal payload written as a fixture screenshot. Only the
// signature is real; the builder copies screenshots without decoding them.
var PNGBytes = []byte("\x89PNG\r\n\x1a\nfixture")

// ModelXML returns an .nlogox document with the given Info content stored as CDATA.
func ModelXML(version, info string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<model version="%s" snapToGrid="true">
  <widgets>
    <view x="210" y="10" wrappingAllowedX="true" />
  </widgets>
  <info><![CDATA[%s]]></info>
  <code><![CDATA[to setup
  clear-all
end]]></code>
</model>
`, version, info)
}

// ModelTree writes fixture models below a root directory.
type ModelTree struct {
	t    *testing.T
	Root string
}

// NewModelTree creates an empty models root inside t.TempDir().
func NewModelTree(t *testing.T) *ModelTree {
	t.Helper()
	root := filepath.Join(t.TempDir(), "models")
	if err := os.MkdirAll(root, testDirPermissions); err != nil {
		t.Fatalf("create models root: %v", err)
	}
	return &ModelTree{t: t, Root: root}
}

// Model writes <rel>.nlogox with the given Info. rel uses forward slashes and no extension.
func (m *ModelTree) Model(rel, info string) *ModelTree {
	m.t.Helper()
	return m.Raw(rel+".nlogox", ModelXML("NetLogo 7.0.0", info))
}

// Screenshot writes <rel>.png next to the model.
func (m *ModelTree) Screenshot(rel string) *ModelTree {
	m.t.Helper()
	return m.Raw(rel+".png", string(PNGBytes))
}

// Dir creates an (empty) directory.
func (m *ModelTree) Dir(rel string) *ModelTree {
	m.t.Helper()
	if err := os.MkdirAll(m.Path(rel), testDirPermissions); err != nil {
		m.t.Fatalf("create dir %s: %v", rel, err)
	}
	return m
}

// Raw writes an arbitrary file.
func (m *ModelTree) Raw(rel, content string) *ModelTree {
	m.t.Helper()
	full := m.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), testDirPermissions); err != nil {
		m.t.Fatalf("create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), testFilePermissions); err != nil {
		m.t.Fatalf("write %s: %v", rel, err)
	}
	return m
}

// Path returns the absolute path of a slash-separated relative path.
func (m *ModelTree) Path(rel string) string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}
