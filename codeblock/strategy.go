// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/strategy.go
// Summary: Chooses how a block of code is drawn.

package codeblock

// DefaultThreshold is the line count above which windowing is considered.
const DefaultThreshold = 200

// Strategy is the way a CodeBlock draws its body.
type Strategy int

const (
	// Plain draws the raw text without styling.
	Plain Strategy = iota
	// Highlighted flattens and draws every row.
	Highlighted
	// HighlightedWindowed flattens only the rows in the scrolled window.
	HighlightedWindowed
)

func (s Strategy) String() string {
	switch s {
	case Plain:
		return "plain"
	case Highlighted:
		return "highlighted"
	case HighlightedWindowed:
		return "windowed"
	}
	return "unknown"
}

// SelectStrategy picks a strategy from the content size, the bordered
// override and the observed body height. Large content whose height has not
// been measured yet is drawn Plain so a huge unwindowed body is never built.
func SelectStrategy(lineCount int, bordered bool, height, threshold int) Strategy {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	eligible := !bordered && lineCount > threshold
	switch {
	case !eligible:
		return Highlighted
	case height > 0:
		return HighlightedWindowed
	default:
		return Plain
	}
}

// EffectiveStrategy applies highlight readiness: nothing styled is drawn
// until the highlight pass for the current content has run.
func EffectiveStrategy(selected Strategy, ready bool) Strategy {
	if !ready {
		return Plain
	}
	return selected
}
