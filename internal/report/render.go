// Package report turns generation output into styled, paginated PDF
// documents. Building the block sequence is pure; only the PDF writer
// touches the filesystem.
package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Style selects the visual treatment of one block.
type Style int

const (
	StyleTitle Style = iota
	StyleMeta
	StyleHeading
	StyleSubheading
	StyleBody
	StyleCode
	StyleAlert
	StyleSpacer
)

func (s Style) String() string {
	switch s {
	case StyleTitle:
		return "title"
	case StyleMeta:
		return "meta"
	case StyleHeading:
		return "heading"
	case StyleSubheading:
		return "subheading"
	case StyleBody:
		return "body"
	case StyleCode:
		return "code"
	case StyleAlert:
		return "alert"
	case StyleSpacer:
		return "spacer"
	}
	return "unknown"
}

// Block is one styled unit of the rendered document.
type Block struct {
	Style Style
	Label string // set for StyleMeta only
	Text  string
}

// MetaEntry is one label/value pair of the report header.
type MetaEntry struct {
	Label string
	Value string
}

// Segment classification is an ordered rule table: the first matching
// rule wins. Fenced code always stays fixed-width, and the alert rule
// outranks headings.
var classifyRules = []struct {
	match func(string) bool
	style Style
}{
	{func(s string) bool { return strings.Contains(s, "```") }, StyleCode},
	{containsAlertKeyword, StyleAlert},
	{func(s string) bool { return strings.HasPrefix(strings.TrimSpace(s), "#") }, StyleHeading},
}

var alertKeywords = []string{"dependency", "package", "vulnerabilities"}

func containsAlertKeyword(s string) bool {
	s = strings.ToLower(s)
	for _, kw := range alertKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Build produces the deterministic block sequence for a report: a title,
// one meta block per entry, then every iteration's text split on blank
// lines and classified segment by segment, with a spacer after each one.
func Build(title, iterationLabel string, texts []string, meta []MetaEntry) []Block {
	blocks := []Block{
		{Style: StyleTitle, Text: title},
		{Style: StyleSpacer},
	}
	for _, m := range meta {
		blocks = append(blocks, Block{Style: StyleMeta, Label: m.Label, Text: m.Value})
	}
	if len(meta) > 0 {
		blocks = append(blocks, Block{Style: StyleSpacer})
	}

	for i, text := range texts {
		blocks = append(blocks,
			Block{Style: StyleHeading, Text: fmt.Sprintf("%s %d", iterationLabel, i+1)},
			Block{Style: StyleSpacer},
		)
		for _, segment := range blankLine.Split(text, -1) {
			if strings.TrimSpace(segment) == "" {
				continue
			}
			blocks = append(blocks, classify(segment), Block{Style: StyleSpacer})
		}
	}
	return blocks
}

func classify(segment string) Block {
	for _, rule := range classifyRules {
		if !rule.match(segment) {
			continue
		}
		switch rule.style {
		case StyleCode:
			return Block{Style: StyleCode, Text: strings.TrimSpace(strings.ReplaceAll(segment, "```", ""))}
		case StyleAlert:
			return Block{Style: StyleAlert, Text: strings.TrimSpace(segment)}
		case StyleHeading:
			trimmed := strings.TrimSpace(segment)
			depth := 0
			for depth < len(trimmed) && trimmed[depth] == '#' {
				depth++
			}
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if depth <= 2 {
				return Block{Style: StyleHeading, Text: text}
			}
			return Block{Style: StyleSubheading, Text: text}
		}
	}
	return Block{Style: StyleBody, Text: strings.TrimSpace(segment)}
}
