// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/line.go
// Summary: Tab- and width-aware text writing over a texelui painter.

package codeblock

import (
	"github.com/framegrace/texelui/core"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelcode/highlight"
)

// borderRunes is the rounded charset for core.Painter.DrawBorder, in
// h, v, tl, tr, bl, br order.
var borderRunes = [6]rune{'─', '│', '╭', '╮', '╰', '╯'}

// lineWriter appends styled text on one row, tracking display columns.
// Tab stops are relative to the origin column. The cell after a wide rune
// is left as painted by the background fill.
type lineWriter struct {
	p       *core.Painter
	originX int
	x, y    int
}

func newLineWriter(p *core.Painter, x, y int) *lineWriter {
	return &lineWriter{p: p, originX: x, x: x, y: y}
}

func (w *lineWriter) col() int { return w.x - w.originX }

func (w *lineWriter) write(s string, style tcell.Style) {
	for _, r := range s {
		switch r {
		case '\t':
			n := highlight.TabWidth - w.col()%highlight.TabWidth
			for range n {
				w.p.SetCell(w.x, w.y, ' ', style)
				w.x++
			}
			continue
		case '\r', '\n':
			continue
		}
		cw := runewidth.RuneWidth(r)
		if cw == 0 {
			continue
		}
		w.p.SetCell(w.x, w.y, r, style)
		w.x += cw
	}
}

// drawText writes s at (x, y) and returns the column after it.
func drawText(p *core.Painter, x, y int, s string, style tcell.Style) int {
	w := newLineWriter(p, x, y)
	w.write(s, style)
	return w.x
}

func emptyRect(r core.Rect) bool { return r.W <= 0 || r.H <= 0 }

func insetRect(r core.Rect, n int) core.Rect {
	return core.Rect{X: r.X + n, Y: r.Y + n, W: max(0, r.W-2*n), H: max(0, r.H-2*n)}
}
