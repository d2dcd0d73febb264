// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/framegrace/texelui/core"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/frame"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/observe"
)

type harness struct {
	block *CodeBlock
	queue *frame.Queue
	clip  *clipboard.Memory
	buf   [][]core.Cell
}

func newHarness(t *testing.T, content string, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{queue: frame.NewQueue(), clip: clipboard.NewMemory()}
	opts := DefaultOptions()
	opts.Scheduler = h.queue
	opts.Clipboard = h.clip
	opts.Language = "go"
	opts.Logger = logging.New("error", io.Discard)
	if mutate != nil {
		mutate(&opts)
	}
	h.block = New(content, opts)
	h.block.Resize(80, 40)
	t.Cleanup(h.block.Close)
	return h
}

func newBuffer(w, h int) [][]core.Cell {
	buf := make([][]core.Cell, h)
	for y := range buf {
		buf[y] = make([]core.Cell, w)
	}
	return buf
}

func (h *harness) draw() {
	h.buf = newBuffer(80, 40)
	h.block.Draw(core.NewPainter(h.buf, core.Rect{W: 80, H: 40}))
}

func (h *harness) cell(x, y int) rune {
	if ch := h.buf[y][x].Ch; ch != 0 {
		return ch
	}
	return ' '
}

// line returns row y without the scroll indicator column.
func (h *harness) line(y int) string {
	var sb strings.Builder
	for x := 0; x < 79; x++ {
		sb.WriteRune(h.cell(x, y))
	}
	return strings.TrimRight(sb.String(), " ")
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %03d", i)
	}
	return strings.Join(lines, "\n")
}

func span(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 2},
		{"a\nb\nc", 3},
		{"\n\n", 3},
		{"a\r\nb", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LineCount(tt.content), "%q", tt.content)
	}
}

func TestSizeClassifierMemoizes(t *testing.T) {
	var s sizeClassifier
	assert.Equal(t, 2, s.lineCount("a\nb"))
	assert.Equal(t, 2, s.lineCount("a\nb"))
	assert.Equal(t, 1, s.lineCount(""))
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		lines    int
		bordered bool
		height   int
		want     Strategy
	}{
		{"small", 3, false, 0, Highlighted},
		{"at threshold", 200, false, 600, Highlighted},
		{"small measured", 10, false, 600, Highlighted},
		{"large unmeasured", 201, false, 0, Plain},
		{"large measured", 201, false, 600, HighlightedWindowed},
		{"large bordered", 500, true, 600, Highlighted},
		{"large bordered unmeasured", 500, true, 0, Highlighted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.lines, tt.bordered, tt.height, DefaultThreshold))
		})
	}
	assert.Equal(t, HighlightedWindowed, SelectStrategy(201, false, 1, 0), "zero threshold selects the default")
}

func TestEffectiveStrategy(t *testing.T) {
	for _, s := range []Strategy{Plain, Highlighted, HighlightedWindowed} {
		assert.Equal(t, Plain, EffectiveStrategy(s, false))
		assert.Equal(t, s, EffectiveStrategy(s, true))
	}
	assert.Equal(t, "windowed", HighlightedWindowed.String())
}

func TestSmallContentHighlightsAfterFrame(t *testing.T) {
	h := newHarness(t, "a\nb\nc", nil)

	assert.Equal(t, 3, h.block.LineCount())
	assert.Equal(t, Plain, h.block.Strategy(), "plain until the frame runs")
	assert.Equal(t, 1, h.queue.Pending())

	h.queue.Flush()
	assert.True(t, h.block.Highlighted())
	assert.Equal(t, Highlighted, h.block.Strategy())

	h.draw()
	assert.Equal(t, []int{0, 1, 2}, h.block.RenderedRows())
	assert.Equal(t, "a", h.line(1))
	assert.Equal(t, "c", h.line(3))

	require.NoError(t, h.block.Copy(context.Background()))
	assert.Equal(t, "a\nb\nc", h.clip.Text())
}

func TestLargeContentWindowsOnceMeasured(t *testing.T) {
	content := numberedLines(300)
	h := newHarness(t, content, func(o *Options) { o.RowHeight = 20 })
	surface := observe.NewEmitter()
	h.block.Attach(surface)

	h.queue.Flush()
	assert.Equal(t, Plain, h.block.Strategy(), "no height observed yet")
	h.draw()
	assert.Empty(t, h.block.RenderedRows())
	assert.Equal(t, "line 000", h.line(1))

	surface.Emit(80, 600.7)
	assert.Equal(t, 600, h.block.ObservedHeight())
	assert.Equal(t, HighlightedWindowed, h.block.Strategy())

	h.draw()
	// 30 rows intersect [0,600); overscan adds two below.
	assert.Equal(t, span(0, 32), h.block.RenderedRows())
	assert.Equal(t, "line 000", h.line(1))
	assert.Equal(t, "line 031", h.line(32))
	assert.Empty(t, h.line(33), "rows past the window are not drawn")

	require.True(t, h.block.ScrollBy(100))
	h.draw()
	assert.Equal(t, span(98, 132), h.block.RenderedRows())
	assert.Equal(t, "line 100", h.line(1))

	require.NoError(t, h.block.Copy(context.Background()))
	assert.Equal(t, content, h.clip.Text())
	assert.Len(t, strings.Split(h.clip.Text(), "\n"), 300)
}

func TestShrinkingWindowedContentDrawsOnlyNewRows(t *testing.T) {
	h := newHarness(t, numberedLines(300), func(o *Options) { o.RowHeight = 20 })
	surface := observe.NewEmitter()
	surface.Emit(80, 600)
	h.block.Attach(surface)
	h.queue.Flush()
	h.draw()
	h.block.HandleKey(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	h.draw()
	require.Equal(t, span(268, 300), h.block.RenderedRows())

	next := make([]string, 250)
	for i := range next {
		next[i] = fmt.Sprintf("next %03d", i)
	}
	h.block.SetContent(strings.Join(next, "\n"))
	assert.Equal(t, Plain, h.block.Strategy())
	h.draw()
	assert.Equal(t, "next 220", h.line(1))

	h.queue.Flush()
	require.Equal(t, HighlightedWindowed, h.block.Strategy())
	h.draw()
	rendered := h.block.RenderedRows()
	assert.Equal(t, span(218, 250), rendered)
	for _, i := range rendered {
		assert.Less(t, i, 250)
	}
	assert.Equal(t, "next 220", h.line(1))
	assert.Equal(t, "next 249", h.line(30))
	assert.Empty(t, h.line(31))
	for y := 1; y <= 30; y++ {
		assert.NotContains(t, h.line(y), "line ")
	}
}

func TestInvalidationsUseLatestBounds(t *testing.T) {
	h := newHarness(t, "a\nb", func(o *Options) { o.CopiedFor = time.Hour })
	var last atomic.Value
	h.block.SetInvalidator(func(r core.Rect) { last.Store(r) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			_ = h.block.Copy(context.Background())
		}
	}()
	for i := range 50 {
		h.block.Resize(40+i%5, 20)
		h.block.SetPosition(i%3, 1)
	}
	<-done

	h.block.Resize(50, 10)
	h.block.SetPosition(2, 3)
	require.NoError(t, h.block.Copy(context.Background()))
	assert.Equal(t, core.Rect{X: 2, Y: 3, W: 50, H: 10}, last.Load())
}

func TestBorderedNeverWindows(t *testing.T) {
	h := newHarness(t, numberedLines(300), func(o *Options) { o.RowHeight = 20 })
	h.block.SetBordered(true)
	surface := observe.NewEmitter()
	surface.Emit(80, 600)
	h.block.Attach(surface)
	h.queue.Flush()

	assert.Equal(t, Highlighted, h.block.Strategy())
	h.draw()
	assert.Len(t, h.block.RenderedRows(), 300)
	assert.Equal(t, '╭', h.cell(0, 0))
	assert.Equal(t, '╯', h.cell(79, 39))

	h.block.SetBordered(false)
	assert.Equal(t, HighlightedWindowed, h.block.Strategy())
}

func TestStaleHighlightPassIsCancelled(t *testing.T) {
	h := newHarness(t, "first", nil)
	h.block.SetContent("second")
	h.block.SetContent("third\nversion")

	assert.Equal(t, 1, h.queue.Pending(), "only the latest pass is pending")
	assert.Equal(t, 1, h.queue.Flush())

	rows := h.block.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "third", rows[0].Text())
	assert.Equal(t, "version", rows[1].Text())
}

func TestContentChangeDropsToPlainImmediately(t *testing.T) {
	h := newHarness(t, "package main", nil)
	h.queue.Flush()
	require.True(t, h.block.Highlighted())

	h.block.SetContent("package other")
	assert.False(t, h.block.Highlighted())
	assert.Equal(t, Plain, h.block.Strategy())
	h.draw()
	assert.Empty(t, h.block.RenderedRows())
	assert.Equal(t, "package other", h.line(1))

	h.queue.Flush()
	assert.True(t, h.block.Highlighted())
}

func TestSameContentKeepsHighlighting(t *testing.T) {
	h := newHarness(t, "x := 1", nil)
	h.queue.Flush()
	h.block.SetContent("x := 1")
	assert.True(t, h.block.Highlighted())
	assert.Zero(t, h.queue.Pending())
}

func TestRowsBeforeHighlightArePlain(t *testing.T) {
	h := newHarness(t, "a\n\tb", nil)
	rows := h.block.Rows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 1)
	assert.Equal(t, "\tb", rows[1][0].Text)
	assert.Equal(t, "code-segment-1", rows[1][0].Key)
}

func TestClassModeRows(t *testing.T) {
	h := newHarness(t, "func main() {}", func(o *Options) { o.Inline = false })
	h.queue.Flush()

	rows := h.block.Rows()
	require.Len(t, rows, 1)
	var classes []string
	for _, run := range rows[0] {
		assert.True(t, run.Style.IsZero())
		classes = append(classes, run.Class)
	}
	assert.Contains(t, classes, "token k kd")
	h.draw()
	assert.Equal(t, "func main() {}", h.line(1))
}

func TestCloseCancelsPendingWork(t *testing.T) {
	h := newHarness(t, "content", nil)
	surface := observe.NewEmitter()
	h.block.Attach(surface)
	require.Equal(t, 1, surface.Subscribers())

	h.block.Close()
	assert.Zero(t, h.queue.Pending())
	assert.Zero(t, surface.Subscribers())
	assert.False(t, h.block.Highlighted())
}

func TestCopyFailureShowsFailedIndicator(t *testing.T) {
	h := newHarness(t, "secret", nil)
	h.clip.FailWith(errors.New("denied"))

	err := h.block.Copy(context.Background())
	require.Error(t, err)
	assert.Equal(t, CopyFailed, h.block.CopyState())
	assert.Empty(t, h.clip.Text())

	h.draw()
	assert.Contains(t, h.line(0), "[copy failed]")
}

func TestCopyWithoutClipboard(t *testing.T) {
	h := newHarness(t, "x", func(o *Options) { o.Clipboard = nil })
	err := h.block.Copy(context.Background())
	assert.ErrorIs(t, err, clipboard.ErrUnavailable)
}

func TestCopyIndicatorReverts(t *testing.T) {
	now := time.Unix(1000, 0)
	var revert func()
	timeNow = func() time.Time { return now }
	afterFunc = func(d time.Duration, fn func()) func() bool {
		assert.Equal(t, 250*time.Millisecond, d)
		revert = fn
		return func() bool { return true }
	}
	t.Cleanup(func() {
		timeNow = time.Now
		afterFunc = func(d time.Duration, fn func()) func() bool { return time.AfterFunc(d, fn).Stop }
	})

	h := newHarness(t, "a\nb", func(o *Options) { o.CopiedFor = 250 * time.Millisecond })
	var redraws atomic.Int32
	h.block.SetInvalidator(func(core.Rect) { redraws.Add(1) })

	assert.Equal(t, CopyIdle, h.block.CopyState())
	require.NoError(t, h.block.Copy(context.Background()))
	assert.Equal(t, CopyDone, h.block.CopyState())
	h.draw()
	assert.Contains(t, h.line(0), "[copied]")

	now = now.Add(300 * time.Millisecond)
	assert.Equal(t, CopyIdle, h.block.CopyState())

	before := redraws.Load()
	require.NotNil(t, revert)
	revert()
	assert.Equal(t, before+1, redraws.Load())
}

func TestPreferredHeight(t *testing.T) {
	h := newHarness(t, "a\nb\nc", nil)
	assert.Equal(t, 4, h.block.PreferredHeight())
	h.block.SetBordered(true)
	assert.Equal(t, 6, h.block.PreferredHeight())
	h.block.SetMaxHeight(5)
	assert.Equal(t, 5, h.block.PreferredHeight())
}

func TestKeyboardScrolling(t *testing.T) {
	h := newHarness(t, numberedLines(100), nil)
	h.queue.Flush()
	h.draw()
	require.False(t, h.block.CanScrollUp())
	require.True(t, h.block.CanScrollDown())

	assert.True(t, h.block.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
	h.draw()
	assert.Equal(t, "line 001", h.line(1))
	assert.True(t, h.block.CanScrollUp())

	h.block.HandleKey(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	h.draw()
	assert.False(t, h.block.CanScrollDown())
	assert.Equal(t, "line 099", h.line(39))

	h.block.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	h.draw()
	assert.Equal(t, "line 000", h.line(1))

	assert.False(t, h.block.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
}

func TestMouseWheelScrolls(t *testing.T) {
	h := newHarness(t, numberedLines(100), nil)
	h.queue.Flush()
	h.draw()

	assert.True(t, h.block.HandleMouse(tcell.NewEventMouse(5, 5, tcell.WheelDown, tcell.ModNone)))
	h.draw()
	assert.Equal(t, "line 003", h.line(1))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Config{
		config.SectionCodeblock: config.Section{
			"threshold":     float64(50),
			"copied_ms":     float64(500),
			"inline_styles": false,
			"style":         "monokai",
		},
	}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 50, opts.Threshold)
	assert.Equal(t, 500*time.Millisecond, opts.CopiedFor)
	assert.False(t, opts.Inline)
	assert.Equal(t, "monokai", opts.StyleName)
	assert.Equal(t, 1, opts.RowHeight)
	assert.Equal(t, frame.DefaultInterval, opts.FrameInterval)
}
