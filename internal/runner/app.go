// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/app.go
// Summary: CodeBlock hosted as a texelui core.App.

package runner

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/framegrace/texelui/core"
	"github.com/framegrace/texelui/runtime"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/codeblock"
	"github.com/framegrace/texelcode/frame"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/observe"
)

// frameQueue bounds how many frame callbacks may wait for the app loop.
// A full queue refuses the post and the frame clock retries on its next tick.
const frameQueue = 64

// wakeInterval is how often a cancelled app pokes the host loop until the
// host stops it.
const wakeInterval = 10 * time.Millisecond

// App shows one CodeBlock. Frame callbacks run on the Run goroutine; key,
// mouse, resize and render calls come from the host loop. mu serialises
// both against the block.
type App struct {
	ctx    context.Context
	logger *log.Logger
	title  string

	backend  string
	ownsClip bool

	mu        sync.Mutex
	block     *codeblock.CodeBlock
	surface   *observe.Emitter
	rowHeight int
	width     int
	height    int
	buf       [][]core.Cell

	frames    chan func()
	stop      chan struct{}
	stopOnce  sync.Once
	refreshMu sync.Mutex
	refresh   chan<- bool
}

// NewApp builds the viewer app for content. ctx cancellation ends Run with
// ctx.Err().
func NewApp(ctx context.Context, content string, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	a := &App{
		ctx:      ctx,
		logger:   logger,
		title:    opts.Title,
		backend:  opts.Clipboard,
		ownsClip: opts.Codeblock.Clipboard == nil,
		surface:  observe.NewEmitter(),
		frames:   make(chan func(), frameQueue),
		stop:     make(chan struct{}),
	}
	if a.title == "" {
		a.title = "texelcode"
	}

	cbOpts := opts.Codeblock
	cbOpts.Logger = logger
	if cbOpts.Scheduler == nil {
		cbOpts.Scheduler = frame.NewClock(cbOpts.FrameInterval, a.post)
	}
	a.rowHeight = max(1, cbOpts.RowHeight)
	a.block = codeblock.New(content, cbOpts)
	a.block.SetBordered(opts.Bordered)
	a.block.SetInvalidator(func(core.Rect) { a.notify() })
	a.block.Attach(a.surface)
	return a
}

// post queues fn for the Run goroutine and reports whether it was queued.
func (a *App) post(fn func()) bool {
	select {
	case <-a.stop:
		return true
	default:
	}
	select {
	case a.frames <- fn:
		return true
	default:
		return false
	}
}

// notify asks the host for a redraw. A pending request already covers it.
func (a *App) notify() {
	a.refreshMu.Lock()
	ch := a.refresh
	a.refreshMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- true:
	default:
	}
}

// SetRefreshNotifier implements core.App.
func (a *App) SetRefreshNotifier(ch chan<- bool) {
	a.refreshMu.Lock()
	a.refresh = ch
	a.refreshMu.Unlock()
}

// SetClipboardService implements core.ClipboardAware. Unless the block was
// built with its own clipboard, the configured backend is resolved against
// the host's service.
func (a *App) SetClipboardService(svc core.ClipboardService) {
	if !a.ownsClip {
		return
	}
	cb, err := clipboard.ForBackend(a.backend, svc)
	if err != nil {
		a.logger.Warn("Runner: clipboard unavailable", logging.FieldBackend, a.backend, logging.FieldError, err)
	}
	a.block.SetClipboard(cb)
}

// Run drains frame callbacks until Stop or ctx cancellation.
func (a *App) Run() error {
	a.logger.Debug("Runner: started", logging.FieldLines, a.block.LineCount())
	for {
		select {
		case fn := <-a.frames:
			a.mu.Lock()
			fn()
			a.mu.Unlock()
			a.notify()
		case <-a.ctx.Done():
			go a.wake()
			return a.ctx.Err()
		case <-a.stop:
			return nil
		}
	}
}

// wake keeps the host loop polling so it observes Run's return.
func (a *App) wake() {
	t := time.NewTicker(wakeInterval)
	defer t.Stop()
	for {
		a.notify()
		select {
		case <-t.C:
		case <-a.stop:
			return
		}
	}
}

// Stop implements core.App.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
		a.mu.Lock()
		a.block.Close()
		a.mu.Unlock()
	})
}

// Resize implements core.App.
func (a *App) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = max(0, cols), max(0, rows)
	a.buf = make([][]core.Cell, a.height)
	for y := range a.buf {
		a.buf[y] = make([]core.Cell, a.width)
	}
	a.layout()
}

// layout sizes the block to the app and reports the body height. Callers
// hold mu.
func (a *App) layout() {
	a.block.SetPosition(0, 0)
	a.block.Resize(a.width, a.height)
	body := a.height - 1
	if a.block.Bordered() {
		body -= 2
	}
	a.surface.Emit(float64(a.width), float64(max(0, body)*a.rowHeight))
}

// Render implements core.App.
func (a *App) Render() [][]core.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()
	for y := range a.buf {
		for x := range a.buf[y] {
			a.buf[y][x] = core.Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
	}
	a.block.Draw(core.NewPainter(a.buf, core.Rect{W: a.width, H: a.height}))
	return a.buf
}

// GetTitle implements core.App.
func (a *App) GetTitle() string { return a.title }

// HandleKey implements core.App. Ctrl-C is the host's exit key; q and Esc
// request exit here.
func (a *App) HandleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		runtime.RequestExit()
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'b' {
		a.block.SetBordered(!a.block.Bordered())
		a.layout()
		return
	}
	a.block.HandleKey(ev)
}

// HandleMouse scrolls and copies through the block.
func (a *App) HandleMouse(ev *tcell.EventMouse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.block.HandleMouse(ev)
}

// Block returns the hosted block. Callers must not use it concurrently
// with a running host.
func (a *App) Block() *codeblock.CodeBlock { return a.block }

var (
	_ core.App            = (*App)(nil)
	_ core.ClipboardAware = (*App)(nil)
)
