package cst

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FindSibling returns the first sibling after start (inclusive) of the given kind.
func FindSibling(kind string, start *Node) *Node {
	for cur := start; cur != nil; cur = cur.NextSibling() {
		if cur.kind == kind {
			return cur
		}
	}

	return nil
}

// Find returns the first node of the given kind in a pre-order walk of root.
func Find(root *Node, kind string) *Node {
	var found *Node

	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}

		if n.kind == kind {
			found = n

			return false
		}

		return true
	})

	return found
}

// Walk visits root and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}

	for _, child := range root.children {
		Walk(child, fn)
	}
}

// HasError reports whether the tree contains a tree-sitter ERROR node.
func HasError(root *Node) bool {
	return Find(root, "ERROR") != nil
}

// Dump writes an indented s-expression-like view of the tree, one node per line.
func Dump(w io.Writer, root *Node) error {
	var sb strings.Builder

	dump(&sb, root, 0)

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("dump tree: %w", err)
	}

	return nil
}

func dump(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.kind)

	if len(n.children) == 0 && n.text != n.kind {
		fmt.Fprintf(sb, " %q", n.text)
	}

	sb.WriteByte('\n')

	for _, child := range n.children {
		dump(sb, child, depth+1)
	}
}

// jsonNode is the serialized form used by MarshalJSON.
type jsonNode struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	Line     int         `json:"line,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// MarshalJSON encodes the subtree; leaf text is included, inner text is not.
func (n *Node) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(toJSON(n))
	if err != nil {
		return nil, fmt.Errorf("marshal node: %w", err)
	}

	return data, nil
}

func toJSON(n *Node) *jsonNode {
	out := &jsonNode{Type: n.kind, Line: n.line}

	if len(n.children) == 0 {
		out.Text = n.text
	}

	for _, child := range n.children {
		out.Children = append(out.Children, toJSON(child))
	}

	return out
}
