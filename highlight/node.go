// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/node.go
// Summary: Token tree produced by the highlighting pass.

package highlight

// NodeKind distinguishes text leaves from elements.
type NodeKind int

const (
	// TextNode is a leaf holding raw text.
	TextNode NodeKind = iota
	// ElementNode is a tagged container with class names and children.
	ElementNode
)

// StructuralClass marks an element as a token wrapper. It carries no style.
const StructuralClass = "token"

// LineClass is the class of the per-line elements under the root.
const LineClass = "line"

// Node is one node of a token tree.
type Node struct {
	Kind     NodeKind
	Value    string
	Tag      string
	Classes  []string
	Children []*Node
}

// Text returns a text leaf.
func Text(value string) *Node {
	return &Node{Kind: TextNode, Value: value}
}

// Element returns an element node.
func Element(tag string, classes []string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Classes: classes, Children: children}
}

// Append adds children to n and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// PlainText concatenates every text leaf under n.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Kind == TextNode {
		return n.Value
	}
	var out []byte
	for _, c := range n.Children {
		out = append(out, c.PlainText()...)
	}
	return string(out)
}
