// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/style.go
// Summary: Style values and the class-set style table built from a chroma style.

package highlight

import (
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyleName is the chroma style used when none is configured.
const DefaultStyleName = "catppuccin-mocha"

// TabWidth is the column stop used when tabs are expanded for display.
const TabWidth = 4

// Flag is a tri-state text attribute.
type Flag uint8

const (
	Unset Flag = iota
	On
	Off
)

func flagFrom(t chroma.Trilean) Flag {
	switch t {
	case chroma.Yes:
		return On
	case chroma.No:
		return Off
	}
	return Unset
}

// Color is an RGB colour; the zero value is "not set".
type Color struct {
	R, G, B uint8
	Set     bool
}

// Hex returns the colour as #rrggbb, or "" when unset.
func (c Color) Hex() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func colorFrom(c chroma.Colour) Color {
	if !c.IsSet() {
		return Color{}
	}
	return Color{R: c.Red(), G: c.Green(), B: c.Blue(), Set: true}
}

// Style is a computed text style.
type Style struct {
	Fg, Bg    Color
	Bold      Flag
	Italic    Flag
	Underline Flag
}

// IsZero reports whether s sets nothing.
func (s Style) IsZero() bool { return s == Style{} }

// Merge returns s overridden by every field o sets.
func (s Style) Merge(o Style) Style {
	if o.Fg.Set {
		s.Fg = o.Fg
	}
	if o.Bg.Set {
		s.Bg = o.Bg
	}
	if o.Bold != Unset {
		s.Bold = o.Bold
	}
	if o.Italic != Unset {
		s.Italic = o.Italic
	}
	if o.Underline != Unset {
		s.Underline = o.Underline
	}
	return s
}

// StyleTable maps canonical class-set keys to styles. Keys are normalized
// once at construction, so a lookup never depends on class order.
type StyleTable struct {
	name    string
	source  *chroma.Style
	base    Style
	entries map[string]Style
}

// LoadStyleTable builds a table from a registered chroma style name,
// falling back to DefaultStyleName.
func LoadStyleTable(name string) *StyleTable {
	if name == "" {
		name = DefaultStyleName
	}
	return NewStyleTable(styles.Get(name))
}

// NewStyleTable builds a table from a chroma style. Only attributes that
// differ from the style's base text are recorded for token classes.
func NewStyleTable(style *chroma.Style) *StyleTable {
	if style == nil {
		style = styles.Fallback
	}
	bg := style.Get(chroma.Background)
	text := style.Get(chroma.Text)
	t := &StyleTable{
		name:    style.Name,
		source:  style,
		entries: make(map[string]Style),
		base: Style{
			Fg: colorFrom(text.Colour),
			Bg: colorFrom(bg.Background),
		},
	}
	if !t.base.Fg.Set {
		t.base.Fg = colorFrom(bg.Colour)
	}

	for tt := range chroma.StandardTypes {
		if tt == chroma.EOFType || (tt < 0 && tt != chroma.Error) {
			continue
		}
		key := CanonicalKey(TokenClasses(tt)...)
		if key == "" {
			continue
		}
		entry := style.Get(tt)
		s := Style{
			Bold:      flagFrom(entry.Bold),
			Italic:    flagFrom(entry.Italic),
			Underline: flagFrom(entry.Underline),
		}
		if fg := colorFrom(entry.Colour); fg.Set && fg != t.base.Fg {
			s.Fg = fg
		}
		if bgc := colorFrom(entry.Background); bgc.Set && bgc != t.base.Bg {
			s.Bg = bgc
		}
		if !s.IsZero() {
			t.entries[key] = s
		}
	}
	return t
}

// NewStyleTableFromMap builds a table from explicit entries. Keys may list
// their classes in any order; they are canonicalized here.
func NewStyleTableFromMap(base Style, entries map[string]Style) *StyleTable {
	t := &StyleTable{base: base, entries: make(map[string]Style, len(entries))}
	for k, v := range entries {
		t.entries[CanonicalKey(splitKey(k)...)] = v
	}
	return t
}

// Name returns the chroma style name the table was built from.
func (t *StyleTable) Name() string { return t.name }

// Chroma returns the chroma style the table was built from, nil for tables
// built from explicit entries.
func (t *StyleTable) Chroma() *chroma.Style { return t.source }

// Base returns the default text style.
func (t *StyleTable) Base() Style { return t.base }

// Lookup returns the entry for a canonical key.
func (t *StyleTable) Lookup(key string) (Style, bool) {
	s, ok := t.entries[key]
	return s, ok
}

// Keys returns every key in sorted order.
func (t *StyleTable) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve computes the style for a set of class names: every single class
// entry, then every two-class combination, then the full set, each merged
// over the previous result. Structural classes are ignored.
func (t *StyleTable) Resolve(classes []string) Style {
	names := StyleClasses(classes)
	var s Style
	if len(names) == 0 {
		return s
	}
	for _, c := range names {
		if e, ok := t.entries[c]; ok {
			s = s.Merge(e)
		}
	}
	if len(names) < 2 {
		return s
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if e, ok := t.entries[CanonicalKey(names[i], names[j])]; ok {
				s = s.Merge(e)
			}
		}
	}
	if len(names) > 2 {
		if e, ok := t.entries[CanonicalKey(names...)]; ok {
			s = s.Merge(e)
		}
	}
	return s
}

func splitKey(k string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(k); i++ {
		if i == len(k) || k[i] == '.' {
			if i > start {
				out = append(out, k[start:i])
			}
			start = i + 1
		}
	}
	return out
}
