// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// Package langdetect guesses the language of a kernel submission so the
// right lexer can be picked. It uses go-enry with filename, shebang,
// kernel-specific patterns and finally the Bayesian classifier.
package langdetect

import (
	"bytes"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Common submission languages, as enry names them.
const (
	LangPython = "Python"
	LangCUDA   = "Cuda"
	LangCPP    = "C++"
	LangC      = "C"
	LangRust   = "Rust"
	LangText   = "Text"
)

// candidates restricts the classifier to languages seen on the leaderboards.
var candidates = []string{
	LangPython, LangCUDA, LangCPP, LangC, LangRust, "Go", "Shell", "Markdown",
}

// Detect returns the enry language name for a submission, or "" when
// nothing is reasonably certain.
func Detect(filename string, content []byte) string {
	if filename != "" {
		if lang, safe := enry.GetLanguageByExtension(filename); safe && lang != "" {
			return lang
		}
		if lang, safe := enry.GetLanguageByFilename(filepath.Base(filename)); safe && lang != "" {
			return lang
		}
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe && lang != "" {
		return lang
	}
	if lang := detectByPattern(content); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return lang
	}
	return ""
}

// detectByPattern recognizes markers that are almost always decisive in
// GPU kernel sources.
func detectByPattern(content []byte) string {
	switch {
	case bytes.Contains(content, []byte("__global__")),
		bytes.Contains(content, []byte("<<<")) && bytes.Contains(content, []byte(">>>")):
		return LangCUDA
	case bytes.Contains(content, []byte("@triton.jit")),
		bytes.Contains(content, []byte("import torch")),
		bytes.HasPrefix(bytes.TrimSpace(content), []byte("from ")) && bytes.Contains(content, []byte(" import ")),
		bytes.Contains(content, []byte("\ndef ")) || bytes.HasPrefix(content, []byte("def ")):
		return LangPython
	case bytes.Contains(content, []byte("#include <")) && bytes.Contains(content, []byte("std::")):
		return LangCPP
	case bytes.Contains(content, []byte("fn main()")):
		return LangRust
	}
	return ""
}

// LexerAlias maps an enry language name to a name chroma recognizes.
func LexerAlias(lang string) string {
	switch lang {
	case LangCUDA:
		return "cuda"
	case LangCPP:
		return "c++"
	case LangText, "":
		return ""
	}
	return lang
}
