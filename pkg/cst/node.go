// Package cst provides the concrete syntax tree consumed by the translator.
//
// A Node exposes the kind tag, ordered children, raw source text and
// parent/sibling links. Trees are built once (by Parser or by hand via New and
// Leaf) and never mutated afterwards.
package cst

import "strings"

// Node is an immutable concrete syntax tree node.
type Node struct {
	kind     string
	text     string
	children []*Node
	parent   *Node
	index    int
	line     int
}

// New creates a node with the given kind, text and children, linking every
// child back to the new node. An empty text is derived from the children.
func New(kind, text string, children ...*Node) *Node {
	node := &Node{kind: kind, text: text, children: children}

	for idx, child := range children {
		child.parent = node
		child.index = idx
	}

	if text == "" && len(children) > 0 {
		node.text = joinText(children)
	}

	return node
}

// Leaf creates a childless node. With no text argument the kind doubles as the
// text, which is how anonymous tokens such as "{" or "let" appear.
func Leaf(kind string, text ...string) *Node {
	if len(text) == 0 {
		return &Node{kind: kind, text: kind}
	}

	return &Node{kind: kind, text: strings.Join(text, "")}
}

// WithLine records the 1-based source line of the node and returns it.
func (n *Node) WithLine(line int) *Node {
	n.line = line

	return n
}

// Type returns the node kind; empty for a nil node.
func (n *Node) Type() string {
	if n == nil {
		return ""
	}

	return n.kind
}

// Text returns the raw source slice of the node; empty for a nil node.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}

	return n.text
}

// Line returns the 1-based source line, or 0 when unknown.
func (n *Node) Line() int {
	if n == nil {
		return 0
	}

	return n.line
}

// IsNull reports whether the node is absent.
func (n *Node) IsNull() bool {
	return n == nil
}

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}

	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}

	return len(n.children)
}

// Child returns the idx-th child, or nil when out of range.
// Negative indexes count from the end.
func (n *Node) Child(idx int) *Node {
	if n == nil {
		return nil
	}

	if idx < 0 {
		idx += len(n.children)
	}

	if idx < 0 || idx >= len(n.children) {
		return nil
	}

	return n.children[idx]
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}

	return n.parent
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}

	return n.parent.Child(n.index + 1)
}

// PrevSibling returns the preceding sibling, or nil.
func (n *Node) PrevSibling() *Node {
	if n == nil || n.parent == nil || n.index == 0 {
		return nil
	}

	return n.parent.Child(n.index - 1)
}

// ChildOfType returns the first direct child of the given kind.
func (n *Node) ChildOfType(kind string) *Node {
	for _, child := range n.Children() {
		if child.kind == kind {
			return child
		}
	}

	return nil
}

// HasChild reports whether a direct child of the given kind exists.
func (n *Node) HasChild(kind string) bool {
	return n.ChildOfType(kind) != nil
}

// Is reports whether the node kind is one of kinds.
func (n *Node) Is(kinds ...string) bool {
	kind := n.Type()

	for _, k := range kinds {
		if kind == k {
			return true
		}
	}

	return false
}

func joinText(children []*Node) string {
	var sb strings.Builder

	for idx, child := range children {
		if idx > 0 && needsSpace(children[idx-1].text, child.text) {
			sb.WriteByte(' ')
		}

		sb.WriteString(child.text)
	}

	return sb.String()
}

// needsSpace keeps hand-built fixtures readable: words are separated, while
// punctuation hugs its neighbours.
func needsSpace(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}

	last := prev[len(prev)-1]
	first := next[0]

	switch {
	case strings.ContainsRune("(.[\\$", rune(last)):
		return false
	case strings.ContainsRune(").,:;]?!", rune(first)):
		return false
	case first == '(' && isWordByte(last):
		return false
	}

	return true
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
