// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import "strings"

// LineCount returns the number of newline-delimited lines in content.
// It is never less than one; the empty string is one empty line.
func LineCount(content string) int {
	return strings.Count(content, "\n") + 1
}

// sizeClassifier memoizes LineCount for the last content it saw.
type sizeClassifier struct {
	content string
	count   int
	valid   bool
}

func (s *sizeClassifier) lineCount(content string) int {
	if s.valid && s.content == content {
		return s.count
	}
	s.content = content
	s.count = LineCount(content)
	s.valid = true
	return s.count
}
