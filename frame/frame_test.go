// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFlushRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	q.Request(func() { got = append(got, 1) })
	q.Request(func() { got = append(got, 2) })

	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue()
	ran := false
	cancel := q.Request(func() { ran = true })
	cancel()

	assert.Equal(t, 0, q.Flush())
	assert.False(t, ran)
}

func TestQueueRequestDuringFlushWaits(t *testing.T) {
	q := NewQueue()
	second := false
	q.Request(func() {
		q.Request(func() { second = true })
	})

	require.Equal(t, 1, q.Flush())
	assert.False(t, second)
	require.Equal(t, 1, q.Flush())
	assert.True(t, second)
}

func TestClockPostsOnNextFrame(t *testing.T) {
	posted := make(chan func(), 4)
	c := NewClock(5*time.Millisecond, func(fn func()) bool { posted <- fn; return true })

	var ran atomic.Bool
	c.Request(func() { ran.Store(true) })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("frame callback was not posted")
	}
	assert.True(t, ran.Load())
}

func TestClockCancelAfterPost(t *testing.T) {
	posted := make(chan func(), 4)
	c := NewClock(5*time.Millisecond, func(fn func()) bool { posted <- fn; return true })

	var ran atomic.Bool
	cancel := c.Request(func() { ran.Store(true) })

	var fn func()
	select {
	case fn = <-posted:
	case <-time.After(time.Second):
		t.Fatal("frame callback was not posted")
	}
	cancel()
	fn()
	assert.False(t, ran.Load(), "cancelled callback must not run from the UI queue")
}

func TestClockCancelBeforeFrame(t *testing.T) {
	posted := make(chan func(), 4)
	c := NewClock(50*time.Millisecond, func(fn func()) bool { posted <- fn; return true })

	cancel := c.Request(func() {})
	cancel()

	select {
	case <-posted:
		t.Fatal("cancelled request was posted")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestClockRetriesRefusedPost(t *testing.T) {
	var attempts atomic.Int32
	posted := make(chan func(), 1)
	c := NewClock(2*time.Millisecond, func(fn func()) bool {
		if attempts.Add(1) <= 2 {
			return false
		}
		posted <- fn
		return true
	})

	var ran atomic.Bool
	c.Request(func() { ran.Store(true) })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("refused frame callback was never retried")
	}
	assert.True(t, ran.Load())
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClockCancelStopsRetries(t *testing.T) {
	var attempts atomic.Int32
	c := NewClock(2*time.Millisecond, func(func()) bool {
		attempts.Add(1)
		return false
	})

	cancel := c.Request(func() {})
	require.Eventually(t, func() bool { return attempts.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	settled := attempts.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, attempts.Load(), settled+1)
}

func TestClockDefaultInterval(t *testing.T) {
	c := NewClock(0, func(func()) bool { return true })
	assert.Equal(t, DefaultInterval, c.Interval())
}

func TestImmediateRunsInline(t *testing.T) {
	ran := false
	cancel := Immediate{}.Request(func() { ran = true })
	assert.True(t, ran)
	cancel()
}
