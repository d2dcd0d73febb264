// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: frame/frame.go
// Summary: Next-frame callback scheduling.
//
// A Scheduler runs a callback once, on the next frame of the UI loop. The
// returned cancel function guarantees the callback will not run, even if the
// frame already fired and the callback is waiting in the UI event queue.

package frame

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the frame period used when none is configured.
const DefaultInterval = 16 * time.Millisecond

// Scheduler runs callbacks on the next frame.
type Scheduler interface {
	Request(fn func()) (cancel func())
}

// Clock schedules callbacks on a fixed frame grid and hands them to post,
// which must deliver them onto the UI goroutine. When post reports that
// the callback could not be queued, the Clock tries again on the next frame.
type Clock struct {
	interval time.Duration
	post     func(func()) bool
	epoch    time.Time
}

// NewClock returns a Clock ticking every interval. post is typically a
// non-blocking send onto the UI loop's frame channel.
func NewClock(interval time.Duration, post func(func()) bool) *Clock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Clock{interval: interval, post: post, epoch: time.Now()}
}

// Interval returns the frame period.
func (c *Clock) Interval() time.Duration { return c.interval }

// Request implements Scheduler.
func (c *Clock) Request(fn func()) func() {
	r := &request{clock: c}
	r.run = func() {
		if !r.cancelled.Load() {
			fn()
		}
	}
	r.arm()
	return r.cancel
}

type request struct {
	clock     *Clock
	run       func()
	cancelled atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
}

func (r *request) arm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled.Load() {
		return
	}
	r.timer = time.AfterFunc(r.clock.untilNextFrame(), r.fire)
}

func (r *request) fire() {
	if r.cancelled.Load() {
		return
	}
	if !r.clock.post(r.run) {
		r.arm()
	}
}

func (r *request) cancel() {
	r.cancelled.Store(true)
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
}

func (c *Clock) untilNextFrame() time.Duration {
	elapsed := time.Since(c.epoch) % c.interval
	return c.interval - elapsed
}

// Queue is a manually flushed Scheduler for headless rendering.
type Queue struct {
	mu      sync.Mutex
	next    uint64
	order   []uint64
	pending map[uint64]func()
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[uint64]func())}
}

// Request implements Scheduler.
func (q *Queue) Request(fn func()) func() {
	q.mu.Lock()
	id := q.next
	q.next++
	q.pending[id] = fn
	q.order = append(q.order, id)
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
	}
}

// Pending returns the number of callbacks waiting for the next Flush.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs the callbacks pending at call time, in request order, and
// returns how many ran. Callbacks requested while flushing wait for the
// next Flush.
func (q *Queue) Flush() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	q.mu.Unlock()

	ran := 0
	for _, id := range order {
		q.mu.Lock()
		fn, ok := q.pending[id]
		delete(q.pending, id)
		q.mu.Unlock()
		if !ok {
			continue
		}
		fn()
		ran++
	}
	return ran
}

// Immediate runs callbacks synchronously inside Request. It suits one-shot
// headless rendering where there is no frame loop to wait for.
type Immediate struct{}

// Request implements Scheduler.
func (Immediate) Request(fn func()) func() {
	fn()
	return func() {}
}
