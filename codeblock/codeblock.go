// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/codeblock.go
// Summary: Adaptive code viewer widget.
//
// A CodeBlock draws source text in one of three strategies. Small content is
// fully highlighted; large content is windowed once the body height is known
// and drawn plain until then. Every content change shows plain text at once
// and re-highlights on the next frame.
//
// Methods run on the UI goroutine, except Copy, CopyState, SetClipboard and the observer
// notifications, which are safe from any goroutine. The invalidator may be
// called from any goroutine.

package codeblock

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/framegrace/texelui/core"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/highlight"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/observe"
	"github.com/framegrace/texelcode/window"
)

// Header rows above the body.
const headerRows = 1

// wheelRows is how far one mouse wheel notch scrolls.
const wheelRows = 3

// CodeBlock is a scrollable, syntax-highlighted code viewer.
type CodeBlock struct {
	core.BaseWidget

	opts   Options
	logger *log.Logger

	size      sizeClassifier
	lines     []string
	bordered  bool
	maxHeight int

	observer *observe.Observer
	ready    *readiness
	list     *window.List

	table      *highlight.StyleTable
	flattener  highlight.Flattener
	root       *highlight.Node
	lexerName  string
	rows       []highlight.FlatRow
	classCache map[string]tcell.Style
	rendered   []int

	body    core.Rect
	copyHit core.Rect
	drawn   Strategy

	mu         sync.Mutex // guards content, clip, bounds, copy, invalidate, closed
	content    string
	clip       clipboard.Clipboard
	bounds     core.Rect
	copy       copyIndicator
	invalidate func(core.Rect)
	closed     bool
}

// New returns a CodeBlock showing content. Highlighting is scheduled on
// opts.Scheduler.
func New(content string, opts Options) *CodeBlock {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 1
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	table := highlight.LoadStyleTable(opts.StyleName)
	logger.Debug("CodeBlock: style loaded", logging.FieldStyle, table.Name())
	b := &CodeBlock{
		opts:       opts,
		logger:     logger.With(logging.FieldComponent, "codeblock"),
		maxHeight:  opts.MaxHeight,
		ready:      newReadiness(opts.Scheduler),
		list:       window.NewList(0, opts.RowHeight, opts.Overscan),
		table:      table,
		flattener:  highlight.Flattener{Table: table, Inline: opts.Inline},
		classCache: make(map[string]tcell.Style),
		clip:       opts.Clipboard,
	}
	b.observer = observe.New(func(height int) {
		b.logger.Debug("CodeBlock: height changed", logging.FieldHeight, height)
		b.invalidateAll()
	})
	b.setContent(content, true)
	return b
}

// SetContent replaces the text. The view drops back to plain text at once
// and the highlight pass for the new text runs on the next frame, replacing
// any pass still pending for older text.
func (b *CodeBlock) SetContent(content string) {
	b.setContent(content, false)
}

func (b *CodeBlock) setContent(content string, force bool) {
	b.mu.Lock()
	same := b.content == content
	b.content = content
	b.mu.Unlock()
	if same && !force {
		return
	}

	b.lines = nil
	b.root = nil
	b.rows = nil
	b.rendered = nil
	b.list.SetRowCount(b.size.lineCount(content))
	b.ready.reset(func() bool { return b.activate(content) })
	b.invalidateAll()
}

// activate runs the highlight pass for content. It reports false, leaving
// the view plain, when content is no longer current or tokenizing fails.
func (b *CodeBlock) activate(content string) bool {
	if b.Content() != content {
		return false
	}
	lexer := highlight.ResolveLexer(b.opts.Language, b.opts.Filename, content)
	root, err := highlight.Tokenize(content, lexer)
	if err != nil {
		b.logger.Warn("CodeBlock: highlight failed", logging.FieldError, err)
		return false
	}
	b.root = root
	b.lexerName = highlight.LexerName(lexer)
	b.rows = nil
	b.logger.Debug("CodeBlock: highlighted",
		logging.FieldLanguage, b.lexerName,
		logging.FieldLines, highlight.RowCount(root))
	b.invalidateAll()
	return true
}

// Content returns the text as given.
func (b *CodeBlock) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// LineCount returns the memoized line count of the content.
func (b *CodeBlock) LineCount() int {
	return b.size.lineCount(b.Content())
}

// SetBordered toggles the bordered layout, which never windows.
func (b *CodeBlock) SetBordered(bordered bool) {
	if b.bordered == bordered {
		return
	}
	b.bordered = bordered
	b.invalidateAll()
}

// Bordered reports whether the bordered layout is on.
func (b *CodeBlock) Bordered() bool { return b.bordered }

// SetMaxHeight caps PreferredHeight; 0 removes the cap.
func (b *CodeBlock) SetMaxHeight(rows int) {
	b.maxHeight = max(0, rows)
}

// PreferredHeight returns the rows needed to show everything, including
// chrome, capped by the maximum height hint.
func (b *CodeBlock) PreferredHeight() int {
	h := headerRows + b.LineCount()
	if b.bordered {
		h += 2
	}
	if b.maxHeight > 0 && h > b.maxHeight {
		h = b.maxHeight
	}
	return h
}

// Attach starts observing the surface that reports the body height.
// Attaching nil detaches.
func (b *CodeBlock) Attach(s observe.Surface) {
	b.observer.Attach(s)
}

// ObservedHeight returns the last body height reported, 0 when unknown.
func (b *CodeBlock) ObservedHeight() int {
	return b.observer.Height()
}

// Strategy returns the strategy the next Draw will use.
func (b *CodeBlock) Strategy() Strategy {
	selected := SelectStrategy(b.LineCount(), b.bordered, b.observer.Height(), b.opts.Threshold)
	return EffectiveStrategy(selected, b.ready.isReady())
}

// Highlighted reports whether the highlight pass for the current content
// has run.
func (b *CodeBlock) Highlighted() bool {
	return b.ready.isReady()
}

// Language returns the language label shown in the header.
func (b *CodeBlock) Language() string {
	if b.opts.Language != "" {
		return b.opts.Language
	}
	if b.lexerName != "" {
		return b.lexerName
	}
	return "text"
}

// StyleTable returns the style table rows are resolved against.
func (b *CodeBlock) StyleTable() *highlight.StyleTable { return b.table }

// RenderedRows returns the indices of the highlighted rows produced by the
// last Draw. It is empty while the plain strategy is shown.
func (b *CodeBlock) RenderedRows() []int {
	return append([]int(nil), b.rendered...)
}

// Rows returns every row of the content, highlighted when the highlight
// pass has run and as single unstyled runs otherwise.
func (b *CodeBlock) Rows() []highlight.FlatRow {
	if b.ready.isReady() && b.root != nil {
		return b.allRows()
	}
	lines := b.plainLines()
	out := make([]highlight.FlatRow, len(lines))
	for i, line := range lines {
		out[i] = highlight.FlatRow{{Key: highlight.RowKey(i), Text: line}}
	}
	return out
}

func (b *CodeBlock) allRows() []highlight.FlatRow {
	if b.rows == nil {
		n := highlight.RowCount(b.root)
		b.rows = make([]highlight.FlatRow, n)
		for i := range n {
			b.rows[i] = b.flattener.Row(b.root, i)
		}
	}
	return b.rows
}

func (b *CodeBlock) plainLines() []string {
	if b.lines == nil {
		b.lines = strings.Split(b.Content(), "\n")
	}
	return b.lines
}

// ScrollBy scrolls the body by n rows and reports whether it moved.
func (b *CodeBlock) ScrollBy(n int) bool {
	if b.list.ScrollRows(n) {
		b.invalidateAll()
		return true
	}
	return false
}

// CanScrollUp reports whether rows are hidden above the body.
func (b *CodeBlock) CanScrollUp() bool { return b.list.CanScrollUp() }

// CanScrollDown reports whether rows are hidden below the body.
func (b *CodeBlock) CanScrollDown() bool { return b.list.CanScrollDown() }

// HandleKey scrolls on navigation keys and copies on 'c'.
func (b *CodeBlock) HandleKey(ev *tcell.EventKey) bool {
	page := max(1, b.list.Viewport().Height/b.opts.RowHeight-1)
	moved := false
	switch ev.Key() {
	case tcell.KeyUp:
		moved = b.list.ScrollRows(-1)
	case tcell.KeyDown:
		moved = b.list.ScrollRows(1)
	case tcell.KeyPgUp:
		moved = b.list.ScrollRows(-page)
	case tcell.KeyPgDn:
		moved = b.list.ScrollRows(page)
	case tcell.KeyHome:
		moved = b.list.ScrollToTop()
	case tcell.KeyEnd:
		moved = b.list.ScrollToBottom()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			moved = b.list.ScrollRows(-1)
		case 'j':
			moved = b.list.ScrollRows(1)
		case 'g':
			moved = b.list.ScrollToTop()
		case 'G':
			moved = b.list.ScrollToBottom()
		case 'c':
			b.copyAsync()
		default:
			return false
		}
	default:
		return false
	}
	if moved {
		b.invalidateAll()
	}
	return true
}

// HandleMouse scrolls on the wheel and copies when the header affordance
// is clicked.
func (b *CodeBlock) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		b.ScrollBy(-wheelRows)
	case buttons&tcell.WheelDown != 0:
		b.ScrollBy(wheelRows)
	case buttons&tcell.Button1 != 0 && b.copyHit.Contains(x, y):
		b.copyAsync()
	default:
		return b.HitTest(x, y)
	}
	return true
}

// SetPosition moves the block.
func (b *CodeBlock) SetPosition(x, y int) {
	b.BaseWidget.SetPosition(x, y)
	b.syncBounds()
}

// Resize sets the block size.
func (b *CodeBlock) Resize(w, h int) {
	b.BaseWidget.Resize(w, h)
	b.syncBounds()
}

// syncBounds publishes Rect for invalidations raised off the UI goroutine.
func (b *CodeBlock) syncBounds() {
	b.mu.Lock()
	b.bounds = b.Rect
	b.mu.Unlock()
}

// SetClipboard replaces the clipboard Copy writes to. It may be called
// from any goroutine.
func (b *CodeBlock) SetClipboard(cb clipboard.Clipboard) {
	b.mu.Lock()
	b.clip = cb
	b.mu.Unlock()
}

// SetInvalidator installs the redraw callback.
func (b *CodeBlock) SetInvalidator(fn func(core.Rect)) {
	b.mu.Lock()
	b.invalidate = fn
	b.mu.Unlock()
}

func (b *CodeBlock) invalidateAll() {
	b.mu.Lock()
	fn, closed, rect := b.invalidate, b.closed, b.bounds
	b.mu.Unlock()
	if fn != nil && !closed {
		fn(rect)
	}
}

// Close cancels the pending highlight pass, stops observing the surface
// and drops the copy indicator timer.
func (b *CodeBlock) Close() {
	b.ready.stop()
	b.observer.Close()
	b.mu.Lock()
	b.closed = true
	if b.copy.stop != nil {
		b.copy.stop()
		b.copy.stop = nil
	}
	b.mu.Unlock()
}
