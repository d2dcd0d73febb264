// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// TokenClasses returns the short CSS class names for a token type: its
// category, sub-category and exact type, most general first, without
// duplicates or empty names.
func TokenClasses(tt chroma.TokenType) []string {
	var types []chroma.TokenType
	if tt < 0 {
		types = []chroma.TokenType{tt}
	} else {
		types = []chroma.TokenType{tt.Category(), tt.SubCategory(), tt}
	}
	out := make([]string, 0, len(types))
	for _, t := range types {
		name := chroma.StandardTypes[t]
		if name == "" || contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// StyleClasses drops structural class names, keeping the ones that can
// carry style.
func StyleClasses(classes []string) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if c == "" || c == StructuralClass || c == LineClass {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CanonicalKey returns the order-independent key of a class set: the
// sorted, de-duplicated names joined with ".".
func CanonicalKey(classes ...string) string {
	if len(classes) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" && !contains(sorted, c) {
			sorted = append(sorted, c)
		}
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ".")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
