// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/ansi.go
// Summary: ANSI output of flattened rows through lipgloss.

package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/framegrace/texelcode/highlight"
)

// ANSIOptions controls ANSI output.
type ANSIOptions struct {
	Bordered bool            // wrap the output in a rounded border
	Title    string          // shown above the code when bordered
	Base     highlight.Style // merged under every run
	Profile  termenv.Profile // colour depth; the zero value is TrueColor
}

// ANSI writes rows as styled terminal text, one line per row.
func ANSI(w io.Writer, rows []highlight.FlatRow, opts ANSIOptions) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(opts.Profile)

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = renderRow(r, row, opts.Base)
	}
	out := strings.Join(lines, "\n")

	if opts.Bordered {
		if opts.Title != "" {
			out = r.NewStyle().Bold(true).Render(opts.Title) + "\n" + out
		}
		out = r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Render(out)
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func renderRow(r *lipgloss.Renderer, row highlight.FlatRow, base highlight.Style) string {
	var sb strings.Builder
	col := 0
	for _, run := range row {
		var text string
		text, col = expandTabs(run.Text, col)
		if text == "" {
			continue
		}
		sb.WriteString(lipglossStyle(r, base.Merge(run.Style)).Render(text))
	}
	return sb.String()
}

// expandTabs replaces tabs with spaces up to the next tab stop, counting
// display columns from col.
func expandTabs(s string, col int) (string, int) {
	if !strings.ContainsAny(s, "\t\r") {
		return s, col + runewidth.StringWidth(s)
	}
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '\t':
			n := highlight.TabWidth - col%highlight.TabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\r':
		default:
			sb.WriteRune(c)
			col += runewidth.RuneWidth(c)
		}
	}
	return sb.String(), col
}

func lipglossStyle(r *lipgloss.Renderer, s highlight.Style) lipgloss.Style {
	st := r.NewStyle()
	if s.Fg.Set {
		st = st.Foreground(lipgloss.Color(s.Fg.Hex()))
	}
	if s.Bg.Set {
		st = st.Background(lipgloss.Color(s.Bg.Hex()))
	}
	if s.Bold == highlight.On {
		st = st.Bold(true)
	}
	if s.Italic == highlight.On {
		st = st.Italic(true)
	}
	if s.Underline == highlight.On {
		st = st.Underline(true)
	}
	return st
}
