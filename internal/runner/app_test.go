// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/codeblock"
	"github.com/framegrace/texelcode/frame"
	"github.com/framegrace/texelcode/internal/logging"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	opts := codeblock.DefaultOptions()
	opts.Scheduler = frame.NewQueue()
	app := NewApp(context.Background(), "x", Options{
		Codeblock: opts,
		Clipboard: clipboard.BackendNone,
		Logger:    logging.New("error", io.Discard),
	})
	t.Cleanup(app.Stop)
	return app
}

func TestPostRefusesWhenFrameQueueIsFull(t *testing.T) {
	app := newTestApp(t)
	for range frameQueue {
		require.True(t, app.post(func() {}))
	}
	assert.False(t, app.post(func() {}), "a full queue must be reported so the clock retries")

	<-app.frames
	assert.True(t, app.post(func() {}))
}

func TestRunExecutesQueuedFramesAndNotifies(t *testing.T) {
	app := newTestApp(t)
	refresh := make(chan bool, 1)
	app.SetRefreshNotifier(refresh)

	ran := make(chan struct{})
	require.True(t, app.post(func() { close(ran) }))

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run() }()
	<-ran
	<-refresh

	app.Stop()
	assert.NoError(t, <-errCh)
	assert.True(t, app.post(func() {}), "posts after Stop are dropped, not retried")
}
