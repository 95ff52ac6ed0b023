// Package filetree builds the visual directory tree included in reports.
package filetree

import (
	"sort"
	"strings"
)

// Node is either a file or a directory with named children.
type Node struct {
	name     string
	dir      bool
	children map[string]*Node
}

// Tree accumulates repo-relative paths and renders them as a visual tree.
type Tree struct {
	root *Node
}

func New() *Tree {
	return &Tree{root: &Node{dir: true, children: map[string]*Node{}}}
}

// InsertFile records a file path. Intermediate directories are created.
func (t *Tree) InsertFile(path string) { t.insert(path, false) }

// InsertDir records a directory path, so empty directories still render.
func (t *Tree) InsertDir(path string) { t.insert(path, true) }

func (t *Tree) insert(path string, dir bool) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return
	}
	parts := strings.Split(path, "/")
	cur := t.root
	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}
		child, ok := cur.children[part]
		if !ok {
			child = &Node{name: part, dir: true, children: map[string]*Node{}}
			cur.children[part] = child
		}
		if i == len(parts)-1 && !dir {
			child.dir = false
		}
		cur = child
	}
}

// Render returns the tree as text, one "├── name" line per entry with
// "│   " continuation prefixes. Directories carry a trailing slash and
// children are sorted by name. The result ends with a newline.
func (t *Tree) Render() string {
	var sb strings.Builder
	renderNode(&sb, t.root, "")
	return sb.String()
}

func renderNode(sb *strings.Builder, n *Node, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := n.children[name]
		sb.WriteString(prefix)
		sb.WriteString("├── ")
		sb.WriteString(child.name)
		if child.dir {
			sb.WriteString("/")
		}
		sb.WriteString("\n")
		if len(child.children) > 0 {
			renderNode(sb, child, prefix+"│   ")
		}
	}
}
