// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: observe/observer.go
// Summary: Height observation over a resizable surface.
//
// An Observer subscribes to one Surface at a time and publishes the floored
// height it reports. Notifications can arrive on any goroutine and after the
// observer has moved on to another surface; those late notifications are
// dropped by generation.

package observe

import (
	"math"
	"sync"
)

// Surface reports its size asynchronously to subscribers.
type Surface interface {
	// Observe registers fn and returns a function that unsubscribes it.
	Observe(fn func(width, height float64)) (cancel func())
}

// Observer tracks the height of the attached surface.
type Observer struct {
	mu       sync.Mutex
	surface  Surface
	cancel   func()
	gen      uint64
	closed   bool
	height   int
	onChange func(height int)
}

// New returns an Observer with height 0. onChange, when non-nil, is called
// outside the lock each time the published height changes.
func New(onChange func(height int)) *Observer {
	return &Observer{onChange: onChange}
}

// Attach subscribes to s. Attaching the current surface is a no-op, a
// different surface replaces the current subscription and nil detaches.
// Any change of surface drops the height back to 0 until the new surface
// reports.
func (o *Observer) Attach(s Surface) {
	o.mu.Lock()
	if o.closed || s == o.surface {
		o.mu.Unlock()
		return
	}
	old := o.detachLocked()
	reset := o.height != 0
	o.height = 0
	onChange := o.onChange
	if s == nil {
		o.mu.Unlock()
		if old != nil {
			old()
		}
		if reset && onChange != nil {
			onChange(0)
		}
		return
	}
	o.surface = s
	gen := o.gen
	o.mu.Unlock()

	if old != nil {
		old()
	}
	if reset && onChange != nil {
		onChange(0)
	}

	cancel := s.Observe(func(_, height float64) {
		o.update(gen, height)
	})

	o.mu.Lock()
	if o.gen != gen || o.closed {
		// Replaced or closed while subscribing.
		o.mu.Unlock()
		cancel()
		return
	}
	o.cancel = cancel
	o.mu.Unlock()
}

// Height returns the last published height, 0 when nothing was observed.
func (o *Observer) Height() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.height
}

// Attached reports whether a surface is currently observed.
func (o *Observer) Attached() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.surface != nil
}

// Close detaches and ignores every later notification and Attach call.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	cancel := o.detachLocked()
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (o *Observer) detachLocked() func() {
	o.gen++
	o.surface = nil
	cancel := o.cancel
	o.cancel = nil
	return cancel
}

func (o *Observer) update(gen uint64, raw float64) {
	if math.IsNaN(raw) || raw < 0 {
		raw = 0
	}
	height := int(math.Floor(raw))

	o.mu.Lock()
	if o.closed || gen != o.gen || height == o.height {
		o.mu.Unlock()
		return
	}
	o.height = height
	onChange := o.onChange
	o.mu.Unlock()

	if onChange != nil {
		onChange(height)
	}
}
