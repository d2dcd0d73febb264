// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: codeblock/readiness.go
// Summary: Frame-deferred highlight activation with a single pending slot.

package codeblock

import "github.com/framegrace/texelcode/frame"

// readiness tracks whether highlighting matches the current content.
// At most one activation is pending; scheduling replaces it.
type readiness struct {
	sched   frame.Scheduler
	cancel  func()
	ready   bool
	pending bool
}

func newReadiness(sched frame.Scheduler) *readiness {
	if sched == nil {
		sched = frame.Immediate{}
	}
	return &readiness{sched: sched}
}

// reset drops readiness immediately and schedules activate for the next
// frame. When activate reports success the state becomes ready.
func (r *readiness) reset(activate func() bool) {
	r.ready = false
	r.stop()
	r.pending = true
	cancel := r.sched.Request(func() {
		r.pending = false
		r.cancel = nil
		r.ready = activate()
	})
	// Immediate schedulers have already run the task.
	if r.pending {
		r.cancel = cancel
	}
}

// stop cancels the pending activation, if any.
func (r *readiness) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.pending = false
}

func (r *readiness) isReady() bool   { return r.ready }
func (r *readiness) isPending() bool { return r.pending }
