// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package observe

import "sync"

// Emitter is a Surface whose size is pushed by its owner, typically from
// terminal resize events.
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(width, height float64)
	width  float64
	height float64
	known  bool
}

// NewEmitter returns an Emitter with no known size.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[int]func(width, height float64))}
}

// Observe implements Surface. A subscriber is told the current size right
// away when one has been emitted.
func (e *Emitter) Observe(fn func(width, height float64)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	w, h, known := e.width, e.height, e.known
	e.mu.Unlock()

	if known {
		fn(w, h)
	}
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Emit records a new size and notifies every subscriber.
func (e *Emitter) Emit(width, height float64) {
	e.mu.Lock()
	e.width, e.height, e.known = width, height, true
	subs := make([]func(width, height float64), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(width, height)
	}
}

// Subscribers returns the number of live subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
