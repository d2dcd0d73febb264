// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/draw.go
// Summary: Painting of the header, border and body strategies.

package codeblock

import (
	"strings"

	"github.com/framegrace/texelui/core"
	"github.com/framegrace/texelui/scroll"
	"github.com/framegrace/texelui/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelcode/highlight"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/window"
)

type chromeStyles struct {
	header    tcell.Style
	border    tcell.Style
	indicator tcell.Style
	copied    tcell.Style
	failed    tcell.Style
}

func loadChrome() chromeStyles {
	tm := theme.Get()
	surface := tm.GetSemanticColor("bg.surface")
	return chromeStyles{
		header:    tcell.StyleDefault.Foreground(tm.GetSemanticColor("text.muted")).Background(surface),
		border:    tcell.StyleDefault.Foreground(tm.GetSemanticColor("border.default")),
		indicator: tcell.StyleDefault.Foreground(tm.GetSemanticColor("accent.primary")),
		copied:    tcell.StyleDefault.Foreground(tm.GetSemanticColor("accent.primary")).Background(surface),
		failed:    tcell.StyleDefault.Foreground(tm.GetSemanticColor("action.danger")).Background(surface),
	}
}

// Draw paints the block into its rectangle.
func (b *CodeBlock) Draw(p *core.Painter) {
	b.rendered = b.rendered[:0]
	rect := b.Rect
	if emptyRect(rect) {
		return
	}
	chrome := loadChrome()
	base := b.baseStyle()
	p = p.WithClip(rect)
	p.Fill(rect, ' ', base)
	if b.bordered {
		p.DrawBorder(rect, chrome.border.Background(b.baseBackground()), borderRunes)
		rect = insetRect(rect, 1)
		if emptyRect(rect) {
			return
		}
	}

	b.drawHeader(p, core.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: headerRows}, chrome)
	body := core.Rect{X: rect.X, Y: rect.Y + headerRows, W: rect.W, H: rect.H - headerRows}
	b.body = body
	if emptyRect(body) {
		return
	}
	b.syncViewport(body)

	bp := p.WithClip(body)
	strategy := b.Strategy()
	if strategy != b.drawn {
		b.logger.Debug("CodeBlock: strategy", logging.FieldStrategy, strategy, logging.FieldLines, b.LineCount())
		b.drawn = strategy
	}
	switch strategy {
	case Plain:
		lines := b.plainLines()
		b.list.Render(func(r window.Row) {
			if r.Index < len(lines) {
				newLineWriter(bp, body.X, b.rowY(body, r)).write(lines[r.Index], base)
			}
		})
	case Highlighted:
		rows := b.allRows()
		for i := range rows {
			b.rendered = append(b.rendered, i)
		}
		b.list.Render(func(r window.Row) {
			if r.Index < len(rows) {
				b.drawRow(bp, body.X, b.rowY(body, r), rows[r.Index])
			}
		})
	case HighlightedWindowed:
		// Rows come from the index every time; nothing is kept per slot.
		b.list.Render(func(r window.Row) {
			b.rendered = append(b.rendered, r.Index)
			b.drawRow(bp, body.X, b.rowY(body, r), b.flattener.Row(b.root, r.Index))
		})
	}

	state := b.list.Viewport().Clamp().State()
	scroll.DrawIndicators(p, body, state, scroll.DefaultIndicatorConfig(chrome.indicator.Background(b.baseBackground())))
}

// syncViewport sizes the list from the observed height, or from the body
// rectangle while no height has been observed.
func (b *CodeBlock) syncViewport(body core.Rect) {
	h := b.observer.Height()
	if h <= 0 {
		h = body.H * b.opts.RowHeight
	}
	b.list.SetHeight(h)
}

func (b *CodeBlock) rowY(body core.Rect, r window.Row) int {
	rh := b.opts.RowHeight
	top := r.Top
	if top < 0 {
		top -= rh - 1
	}
	return body.Y + top/rh
}

func (b *CodeBlock) drawHeader(p *core.Painter, r core.Rect, chrome chromeStyles) {
	p.Fill(r, ' ', chrome.header)
	drawText(p, r.X+1, r.Y, b.Language(), chrome.header)

	state := b.CopyState()
	style := chrome.header
	switch state {
	case CopyDone:
		style = chrome.copied
	case CopyFailed:
		style = chrome.failed
	}
	label := "[" + state.String() + "]"
	w := runewidth.StringWidth(label)
	x := max(r.X, r.X+r.W-w-1)
	drawText(p, x, r.Y, label, style)
	b.copyHit = core.Rect{X: x, Y: r.Y, W: w, H: 1}
}

func (b *CodeBlock) drawRow(p *core.Painter, x, y int, row highlight.FlatRow) {
	lw := newLineWriter(p, x, y)
	for _, run := range row {
		lw.write(run.Text, b.runStyle(run))
	}
}

// runStyle converts a run to a cell style. Class-mode runs are resolved
// here, once per distinct class string.
func (b *CodeBlock) runStyle(run highlight.Run) tcell.Style {
	if b.opts.Inline {
		return toTcell(b.table.Base().Merge(run.Style))
	}
	if st, ok := b.classCache[run.Class]; ok {
		return st
	}
	resolved := b.table.Resolve(highlight.StyleClasses(strings.Fields(run.Class)))
	st := toTcell(b.table.Base().Merge(resolved))
	b.classCache[run.Class] = st
	return st
}

func (b *CodeBlock) baseStyle() tcell.Style {
	base := b.table.Base()
	st := toTcell(base)
	if !base.Fg.Set {
		st = st.Foreground(theme.Get().GetSemanticColor("text.primary"))
	}
	return st.Background(b.baseBackground())
}

func (b *CodeBlock) baseBackground() tcell.Color {
	if bg := b.table.Base().Bg; bg.Set {
		return rgb(bg)
	}
	return theme.Get().GetSemanticColor("bg.base")
}

func rgb(c highlight.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func toTcell(s highlight.Style) tcell.Style {
	st := tcell.StyleDefault
	if s.Fg.Set {
		st = st.Foreground(rgb(s.Fg))
	}
	if s.Bg.Set {
		st = st.Background(rgb(s.Bg))
	}
	return st.
		Bold(s.Bold == highlight.On).
		Italic(s.Italic == highlight.On).
		Underline(s.Underline == highlight.On)
}
