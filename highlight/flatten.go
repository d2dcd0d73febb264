// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/flatten.go
// Summary: Flattens token subtrees into styled text runs.
//
// A windowed renderer needs rows it can index randomly, so each line
// element of the token tree is flattened into a FlatRow on demand.

package highlight

import (
	"strconv"
	"strings"
)

// Run is a span of text drawn with one style.
type Run struct {
	Key   string // positional key, stable across re-renders
	Text  string
	Style Style  // computed style (inline mode)
	Class string // class names of the enclosing element (class mode)
}

// FlatRow is one visual line.
type FlatRow []Run

// Text returns the row's text.
func (r FlatRow) Text() string {
	var sb strings.Builder
	for _, run := range r {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// Flattener converts token subtrees to runs. With Inline set, element
// classes are resolved through Table into computed styles; otherwise class
// names are passed through for external styling.
type Flattener struct {
	Table  *StyleTable
	Inline bool
}

// RowKey returns the key of row index.
func RowKey(index int) string {
	return "code-segment-" + strconv.Itoa(index)
}

// RowCount returns the number of line elements under root.
func RowCount(root *Node) int {
	if root == nil {
		return 0
	}
	return len(root.Children)
}

// Row flattens line index of root. Out-of-range indices yield nil.
func (f Flattener) Row(root *Node, index int) FlatRow {
	if root == nil || index < 0 || index >= len(root.Children) {
		return nil
	}
	return f.Flatten(root.Children[index], RowKey(index))
}

// Flatten converts n and its subtree depth-first.
func (f Flattener) Flatten(n *Node, key string) FlatRow {
	var out FlatRow
	f.flatten(n, key, Style{}, "", &out)
	return out
}

func (f Flattener) flatten(n *Node, key string, inherited Style, class string, out *FlatRow) {
	if n == nil {
		return
	}
	if n.Kind == TextNode {
		*out = append(*out, Run{Key: key, Text: n.Value, Style: inherited, Class: class})
		return
	}
	if n.Tag == "" {
		return
	}

	style := inherited
	if len(n.Classes) > 0 {
		if f.Inline {
			if f.Table != nil {
				style = style.Merge(f.Table.Resolve(n.Classes))
			}
		} else {
			class = strings.Join(n.Classes, " ")
		}
	}
	for i, child := range n.Children {
		f.flatten(child, key+"-"+strconv.Itoa(i), style, class, out)
	}
}
