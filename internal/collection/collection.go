// Package collection flattens the Zotero collection forest into an indented
// list suitable for linear selection.
package collection

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Indent is the per-level indentation in flattened output.
const Indent = "  "

// Node is one collection. ParentID is nil for top-level collections.
type Node struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// Entry is one line of a flattened tree.
type Entry struct {
	Node  Node
	Depth int
}

// Line renders the entry as depth*2 spaces followed by the name.
func (e Entry) Line() string {
	return strings.Repeat(Indent, e.Depth) + e.Node.Name
}

// Flatten returns the display lines for the whole forest.
//
// Example: roots A and B with A1 under A yield ["A", "  A1", "B"].
func Flatten(nodes []Node) []string {
	entries := Walk(nodes, nil, 0)
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line()
	}
	return lines
}

// Walk visits the subtree below root (nil for the whole forest) depth-first,
// pre-order, with siblings in locale-aware name order. depth is the depth
// assigned to root's direct children.
//
// Nodes whose parent is not in nodes are unreachable and omitted.
func Walk(nodes []Node, root *int64, depth int) []Entry {
	children := make(map[int64][]Node)
	var top []Node
	for _, n := range nodes {
		if n.ParentID == nil {
			top = append(top, n)
		} else {
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}

	col := collate.New(language.Und)
	byName := func(ns []Node) {
		sort.SliceStable(ns, func(i, j int) bool {
			return col.CompareString(ns[i].Name, ns[j].Name) < 0
		})
	}
	byName(top)
	for id := range children {
		byName(children[id])
	}

	start := top
	if root != nil {
		start = children[*root]
	}

	// Explicit stack; children are pushed in reverse so the
	// alphabetically first sibling is popped first.
	stack := make([]Entry, 0, len(nodes))
	for i := len(start) - 1; i >= 0; i-- {
		stack = append(stack, Entry{Node: start[i], Depth: depth})
	}

	visited := make(map[int64]bool, len(nodes))
	out := make([]Entry, 0, len(nodes))
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[e.Node.ID] {
			continue // cycle in source data
		}
		visited[e.Node.ID] = true
		out = append(out, e)

		kids := children[e.Node.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, Entry{Node: kids[i], Depth: e.Depth + 1})
		}
	}

	return out
}

// SelectionName recovers the collection name from a flattened line.
//
// Names are assumed unique. If two collections share a name, the scope
// filter built from it matches all of them.
func SelectionName(line string) string {
	return strings.TrimSpace(line)
}
