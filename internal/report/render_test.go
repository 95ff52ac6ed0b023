package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Deterministic(t *testing.T) {
	texts := []string{"## Report\n\nLooks fine.\n\n### Detail\n\nSome body."}
	meta := []MetaEntry{{Label: "Programming Languages", Value: "Go"}}

	a := Build("Code Analysis Report", "Analysis Iteration", texts, meta)
	b := Build("Code Analysis Report", "Analysis Iteration", texts, meta)
	assert.Equal(t, a, b)
}

func TestBuild_HeadingDepth(t *testing.T) {
	blocks := Build("T", "Iteration", []string{"### Title"}, nil)
	found := findByStyle(blocks, StyleSubheading)
	require.Len(t, found, 1)
	assert.Equal(t, "Title", found[0].Text)

	blocks = Build("T", "Iteration", []string{"## Overview"}, nil)
	// The iteration label is also a heading; the segment heading is last.
	heads := findByStyle(blocks, StyleHeading)
	require.NotEmpty(t, heads)
	assert.Equal(t, "Overview", heads[len(heads)-1].Text)
}

func TestBuild_AlertOutranksHeading(t *testing.T) {
	blocks := Build("T", "Iteration", []string{"### Dependency Review"}, nil)
	alerts := findByStyle(blocks, StyleAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, "### Dependency Review", alerts[0].Text)
	assert.Empty(t, findByStyle(blocks, StyleSubheading))
}

func TestBuild_AlertKeywordsCaseInsensitive(t *testing.T) {
	for _, s := range []string{
		"Outdated DEPENDENCY found.",
		"The package list is stale.",
		"Known vulnerabilities exist.",
	} {
		blocks := Build("T", "Iteration", []string{s}, nil)
		assert.Len(t, findByStyle(blocks, StyleAlert), 1, s)
	}
}

func TestBuild_CodeFence(t *testing.T) {
	blocks := Build("T", "Iteration", []string{"```go\nfunc main() {}\n```"}, nil)
	code := findByStyle(blocks, StyleCode)
	require.Len(t, code, 1)
	assert.NotContains(t, code[0].Text, "```")
	assert.Contains(t, code[0].Text, "func main() {}")
}

func TestBuild_SpacerAfterEverySegment(t *testing.T) {
	blocks := Build("T", "Iteration", []string{"one\n\ntwo\n\nthree"}, nil)
	for i, b := range blocks {
		if b.Style == StyleSpacer {
			continue
		}
		require.Less(t, i+1, len(blocks), "non-spacer block %d has no successor", i)
		assert.Equal(t, StyleSpacer, blocks[i+1].Style, "block %d (%s) not followed by spacer", i, b.Style)
	}
}

func TestBuild_MetaBlocks(t *testing.T) {
	meta := []MetaEntry{
		{Label: "Programming Languages", Value: "Go, Python"},
		{Label: "Total Iterations", Value: "2"},
	}
	blocks := Build("T", "Iteration", nil, meta)
	got := findByStyle(blocks, StyleMeta)
	require.Len(t, got, 2)
	assert.Equal(t, "Programming Languages", got[0].Label)
	assert.Equal(t, "Go, Python", got[0].Text)
	assert.Equal(t, "Total Iterations", got[1].Label)
}

func TestBuild_KeepsDuplicateRounds(t *testing.T) {
	texts := []string{"Same output.", "Same output."}
	blocks := Build("T", "Iteration", texts, nil)
	bodies := findByStyle(blocks, StyleBody)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0].Text, bodies[1].Text)
}

func findByStyle(blocks []Block, style Style) []Block {
	var out []Block
	for _, b := range blocks {
		if b.Style == style {
			out = append(out, b)
		}
	}
	return out
}
