package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_SingleFile(t *testing.T) {
	tr := New()
	tr.InsertFile("a.py")
	assert.Equal(t, "├── a.py\n", tr.Render())
}

func TestRender_NestedSorted(t *testing.T) {
	tr := New()
	tr.InsertFile("src/main.go")
	tr.InsertFile("src/util/helper.go")
	tr.InsertFile("README.md")

	want := "├── README.md\n" +
		"├── src/\n" +
		"│   ├── main.go\n" +
		"│   ├── util/\n" +
		"│   │   ├── helper.go\n"
	assert.Equal(t, want, tr.Render())
}

func TestRender_EmptyDirKept(t *testing.T) {
	tr := New()
	tr.InsertDir("docs")
	assert.Equal(t, "├── docs/\n", tr.Render())
}

func TestRender_FileUpgradeOverDir(t *testing.T) {
	// Inserting a file at a path previously seen as a directory stub
	// must render it without the slash.
	tr := New()
	tr.InsertFile("pkg/mod.go")
	tr.InsertFile("pkg")
	assert.Equal(t, "├── pkg\n│   ├── mod.go\n", tr.Render())
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", New().Render())
}
