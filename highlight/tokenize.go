// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/tokenize.go
// Summary: Chroma tokenization into a per-line token tree.

package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ResolveLexer returns a lexer by language name, then by filename, then by
// content analysis, falling back to the plain-text lexer.
func ResolveLexer(language, filename, content string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	if content != "" {
		if l := lexers.Analyse(content); l != nil {
			return l
		}
	}
	return lexers.Fallback
}

// LexerName returns the display name of a lexer.
func LexerName(l chroma.Lexer) string {
	if l == nil || l.Config() == nil {
		return ""
	}
	return l.Config().Name
}

// Tokenize runs lexer over content and returns a root "code" element with
// exactly one "line" element per newline-delimited line of content. Each
// line holds one token element per token, wrapping a text leaf. Newline
// characters are not part of the tree.
func Tokenize(content string, lexer chroma.Lexer) (*Node, error) {
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lineCount := strings.Count(content, "\n") + 1
	lines := make([]*Node, lineCount)
	for i := range lines {
		lines[i] = Element("span", []string{LineClass})
	}
	root := Element("code", nil, lines...)

	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), &chroma.TokeniseOptions{State: "root"}, content)
	if err != nil {
		return root, fmt.Errorf("tokenise: %w", err)
	}

	line := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if line >= lineCount {
				break
			}
			if part != "" {
				lines[line].Append(tokenElement(tok.Type, part))
			}
			if i < len(parts)-1 {
				line++
			}
		}
	}
	return root, nil
}

func tokenElement(tt chroma.TokenType, value string) *Node {
	classes := append([]string{StructuralClass}, TokenClasses(tt)...)
	return Element("span", classes, Text(value))
}
