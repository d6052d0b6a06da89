package tree

import "fmt"

// Node is a single entry of a mindmap tree
type Node struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Level    int     `json:"level"` // heading level, or list depth offset by the enclosing heading
	Children []*Node `json:"children"`
	Expanded bool    `json:"expanded,omitempty"`
}

// Forest is an ordered list of independent root nodes
type Forest []*Node

// IDGenerator hands out node IDs that are unique within one conversion call
type IDGenerator struct {
	next int
}

// Next returns the next ID: node-0, node-1, ...
func (g *IDGenerator) Next() string {
	id := fmt.Sprintf("node-%d", g.next)
	g.next++
	return id
}

// NewNode creates an expanded node with no children
func NewNode(id, text string, level int) *Node {
	return &Node{
		ID:       id,
		Text:     text,
		Level:    level,
		Children: []*Node{},
		Expanded: true,
	}
}

// AddChild appends child in document order
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// HasChildren reports whether the node has any children
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Walk visits every node depth-first in document order.
// depth is the structural depth (0 for roots). Returning false from fn
// skips the node's children.
func Walk(forest Forest, fn func(n *Node, depth int) bool) {
	for _, root := range forest {
		walk(root, 0, fn)
	}
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Count returns the total number of nodes in the forest
func Count(forest Forest) int {
	total := 0
	Walk(forest, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// MaxDepth returns the deepest structural depth, or -1 for an empty forest
func MaxDepth(forest Forest) int {
	deepest := -1
	Walk(forest, func(_ *Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}

// Entry is a (text, structural depth) pair
type Entry struct {
	Text  string
	Depth int
}

// Outline flattens the forest into (text, depth) pairs in document order.
// Two forests with equal outlines have the same texts and the same shape.
func Outline(forest Forest) []Entry {
	var entries []Entry
	Walk(forest, func(n *Node, depth int) bool {
		entries = append(entries, Entry{Text: n.Text, Depth: depth})
		return true
	})
	return entries
}

// SetExpanded sets the expanded flag on every node
func SetExpanded(forest Forest, expanded bool) {
	Walk(forest, func(n *Node, _ int) bool {
		n.Expanded = expanded
		return true
	})
}
