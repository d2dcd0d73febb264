// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: window/window.go
// Summary: Fixed-row-height windowed list.
//
// Only rows intersecting the scrolled viewport, plus a small overscan on
// either side, are handed to the row callback. Row content is always
// derived from the row index by the caller; the list recycles slot numbers
// but never caches what was drawn into a slot.

package window

import "github.com/framegrace/texelui/scroll"

// DefaultOverscan is the number of extra rows rendered on each side.
const DefaultOverscan = 2

// Viewport is the scroll geometry of a list. Heights and offsets share one
// unit (terminal rows, pixels, ...); RowHeight is the height of every row.
type Viewport struct {
	RowCount  int
	RowHeight int
	Height    int
	Offset    int
	Overscan  int
}

func (v Viewport) rowHeight() int {
	if v.RowHeight <= 0 {
		return 1
	}
	return v.RowHeight
}

// ContentHeight returns the total height of all rows.
func (v Viewport) ContentHeight() int {
	if v.RowCount <= 0 {
		return 0
	}
	return v.RowCount * v.rowHeight()
}

// State returns the geometry as a texelui scroll state, in the list's units.
func (v Viewport) State() scroll.State {
	return scroll.State{
		ContentHeight:  v.ContentHeight(),
		ViewportHeight: max(0, v.Height),
		Offset:         v.Offset,
	}
}

// MaxOffset returns the largest valid scroll offset.
func (v Viewport) MaxOffset() int { return v.State().MaxOffset() }

// Clamp returns v with Offset inside [0, MaxOffset].
func (v Viewport) Clamp() Viewport {
	v.Offset = v.State().Clamp().Offset
	return v
}

// Visible returns the half-open range [start, end) of row indices that
// intersect [Offset, Offset+Height), widened by Overscan.
func (v Viewport) Visible() (start, end int) {
	if v.RowCount <= 0 || v.Height <= 0 {
		return 0, 0
	}
	v = v.Clamp()
	rh := v.rowHeight()
	start = v.Offset / rh
	end = (v.Offset + v.Height + rh - 1) / rh
	overscan := max(0, v.Overscan)
	start = max(0, start-overscan)
	end = min(v.RowCount, end+overscan)
	return start, end
}

// RowTop returns the top of row index relative to the viewport top.
func (v Viewport) RowTop(index int) int {
	return index*v.rowHeight() - v.Offset
}

// CanScroll reports whether the content is taller than the viewport.
func (v Viewport) CanScroll() bool { return v.State().CanScroll() }

// CanScrollUp reports whether content exists above the viewport.
func (v Viewport) CanScrollUp() bool { return v.State().Clamp().CanScrollUp() }

// CanScrollDown reports whether content exists below the viewport.
func (v Viewport) CanScrollDown() bool { return v.State().Clamp().CanScrollDown() }

// SlotCount returns how many row slots the viewport needs at most.
func (v Viewport) SlotCount() int {
	if v.Height <= 0 {
		return 0
	}
	rh := v.rowHeight()
	return (v.Height+rh-1)/rh + 1 + 2*max(0, v.Overscan)
}

// Row describes one row handed to a render callback.
type Row struct {
	Index int // row index in the list
	Top   int // top edge relative to the viewport
	Slot  int // recycled slot number
}

// List is a scrollable windowed list.
type List struct {
	vp Viewport
}

// NewList returns a list of rowCount rows of rowHeight units each.
// A negative overscan selects DefaultOverscan.
func NewList(rowCount, rowHeight, overscan int) *List {
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	return &List{vp: Viewport{RowCount: rowCount, RowHeight: rowHeight, Overscan: overscan}}
}

// Viewport returns the current geometry.
func (l *List) Viewport() Viewport { return l.vp }

// SetHeight sets the viewport height and re-clamps the offset.
func (l *List) SetHeight(h int) {
	l.vp.Height = max(0, h)
	l.vp = l.vp.Clamp()
}

// SetRowCount changes the number of rows and re-clamps the offset.
func (l *List) SetRowCount(n int) {
	l.vp.RowCount = max(0, n)
	l.vp = l.vp.Clamp()
}

// SetRowHeight changes the row height.
func (l *List) SetRowHeight(h int) {
	l.vp.RowHeight = h
	l.vp = l.vp.Clamp()
}

// Offset returns the scroll offset.
func (l *List) Offset() int { return l.vp.Offset }

// ScrollBy moves the offset by delta units and reports whether it changed.
func (l *List) ScrollBy(delta int) bool {
	old := l.vp.Offset
	l.vp.Offset += delta
	l.vp = l.vp.Clamp()
	return l.vp.Offset != old
}

// ScrollRows moves the offset by n rows.
func (l *List) ScrollRows(n int) bool {
	return l.ScrollBy(n * l.vp.rowHeight())
}

// ScrollTo scrolls the minimum amount that makes row index fully visible.
func (l *List) ScrollTo(index int) bool {
	rh := l.vp.rowHeight()
	top := index * rh
	old := l.vp.Offset
	switch {
	case top < l.vp.Offset:
		l.vp.Offset = top
	case top+rh > l.vp.Offset+l.vp.Height:
		l.vp.Offset = top + rh - l.vp.Height
	}
	l.vp = l.vp.Clamp()
	return l.vp.Offset != old
}

// ScrollToTop scrolls to the first row.
func (l *List) ScrollToTop() bool {
	old := l.vp.Offset
	l.vp.Offset = 0
	return old != 0
}

// ScrollToBottom scrolls so the last row touches the viewport bottom.
func (l *List) ScrollToBottom() bool {
	old := l.vp.Offset
	l.vp.Offset = l.vp.MaxOffset()
	return old != l.vp.Offset
}

// CanScrollUp reports whether content exists above the viewport.
func (l *List) CanScrollUp() bool { return l.vp.CanScrollUp() }

// CanScrollDown reports whether content exists below the viewport.
func (l *List) CanScrollDown() bool { return l.vp.CanScrollDown() }

// Render calls fn for every visible row in index order.
func (l *List) Render(fn func(Row)) {
	start, end := l.vp.Visible()
	slots := l.vp.SlotCount()
	for i := start; i < end; i++ {
		fn(Row{Index: i, Top: l.vp.RowTop(i), Slot: i % slots})
	}
}
