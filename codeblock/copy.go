// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/copy.go
// Summary: Copy-to-clipboard action and its transient indicator.

package codeblock

import (
	"context"
	"time"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/internal/logging"
)

// DefaultCopiedFor is how long the copy indicator stays up.
const DefaultCopiedFor = 1500 * time.Millisecond

// CopyState is the copy affordance shown in the header.
type CopyState int

const (
	CopyIdle CopyState = iota
	CopyDone
	CopyFailed
)

func (s CopyState) String() string {
	switch s {
	case CopyDone:
		return "copied"
	case CopyFailed:
		return "copy failed"
	}
	return "copy"
}

// Swapped out in tests.
var (
	timeNow   = time.Now
	afterFunc = func(d time.Duration, fn func()) (stop func() bool) {
		return time.AfterFunc(d, fn).Stop
	}
)

type copyIndicator struct {
	seq   uint64
	state CopyState
	until time.Time
	stop  func() bool
}

// Copy writes the original content, verbatim, to the clipboard. The
// indicator shows "copied" on success or "copy failed" on error for the
// configured duration, after which an invalidation redraws the header.
// Copy may be called from any goroutine.
func (b *CodeBlock) Copy(ctx context.Context) error {
	b.mu.Lock()
	content, clip := b.content, b.clip
	b.mu.Unlock()
	var err error
	if clip == nil {
		err = clipboard.ErrUnavailable
	} else {
		err = clip.WriteText(ctx, content)
	}

	state := CopyDone
	if err != nil {
		state = CopyFailed
		b.logger.Warn("CodeBlock: copy failed", logging.FieldError, err)
	} else {
		b.logger.Debug("CodeBlock: copied", logging.FieldLines, LineCount(content))
	}
	b.setCopyState(state)
	return err
}

// CopyState returns the current copy indicator.
func (b *CodeBlock) CopyState() CopyState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.copy.state != CopyIdle && !timeNow().Before(b.copy.until) {
		return CopyIdle
	}
	return b.copy.state
}

func (b *CodeBlock) setCopyState(state CopyState) {
	d := b.opts.CopiedFor
	if d <= 0 {
		d = DefaultCopiedFor
	}
	b.mu.Lock()
	if b.copy.stop != nil {
		b.copy.stop()
	}
	b.copy.seq++
	seq := b.copy.seq
	b.copy.state = state
	b.copy.until = timeNow().Add(d)
	b.copy.stop = afterFunc(d, func() {
		b.mu.Lock()
		if b.copy.seq != seq || b.closed {
			b.mu.Unlock()
			return
		}
		b.copy.state = CopyIdle
		b.copy.stop = nil
		b.mu.Unlock()
		b.invalidateAll()
	})
	b.mu.Unlock()
	b.invalidateAll()
}

func (b *CodeBlock) copyAsync() {
	go func() {
		_ = b.Copy(context.Background())
	}()
}
