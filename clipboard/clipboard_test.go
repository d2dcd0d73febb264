// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package clipboard

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/framegrace/texelui/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceWritesVerbatim(t *testing.T) {
	host := NewMemory()
	cb := NewService(host)

	require.NoError(t, cb.WriteText(context.Background(), "a\n\tb\r\n"))
	mime, data, ok := host.GetClipboard()
	require.True(t, ok)
	assert.Equal(t, MIMEText, mime)
	assert.Equal(t, "a\n\tb\r\n", string(data))
}

func TestServiceRespectsCancelledContext(t *testing.T) {
	host := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewService(host).WriteText(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, _, ok := host.GetClipboard()
	assert.False(t, ok)
	assert.ErrorIs(t, NewService(nil).WriteText(context.Background(), "x"), ErrUnavailable)
}

func TestMemoryAsHostService(t *testing.T) {
	var svc core.ClipboardService = NewMemory()
	_, _, ok := svc.GetClipboard()
	assert.False(t, ok)

	svc.SetClipboard("text/html", []byte("<b>x</b>"))
	mime, data, ok := svc.GetClipboard()
	require.True(t, ok)
	assert.Equal(t, "text/html", mime)
	assert.Equal(t, "<b>x</b>", string(data))
	assert.Equal(t, "<b>x</b>", svc.(*Memory).Text())
}

func TestFallbackStopsAtFirstSuccess(t *testing.T) {
	boom := errors.New("boom")
	failing := NewMemory()
	failing.FailWith(boom)
	ok := NewMemory()
	unused := NewMemory()

	err := Fallback{failing, ok, unused}.WriteText(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "code", ok.Text())
	assert.Equal(t, 0, unused.Writes())
}

func TestFallbackJoinsErrors(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	a, b := NewMemory(), NewMemory()
	a.FailWith(first)
	b.FailWith(second)

	err := Fallback{a, b}.WriteText(context.Background(), "x")
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.ErrorIs(t, Fallback{}.WriteText(context.Background(), "x"), ErrUnavailable)
}

func TestFuncAdapter(t *testing.T) {
	var got string
	cb := Func(func(_ context.Context, text string) error {
		got = text
		return nil
	})
	require.NoError(t, cb.WriteText(context.Background(), "y"))
	assert.Equal(t, "y", got)
}

func TestCommandPipesStdin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out := t.TempDir() + "/clip"
	cmd := &Command{Name: "sh", Args: []string{"-c", "cat > " + out}}

	require.NoError(t, cmd.WriteText(context.Background(), "kernel\n"))

	data, err := exec.Command("cat", out).Output()
	require.NoError(t, err)
	assert.Equal(t, "kernel\n", string(data))
}

func TestCommandReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cmd := &Command{Name: "sh", Args: []string{"-c", "echo nope >&2; exit 3"}}
	err := cmd.WriteText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestForBackend(t *testing.T) {
	host := NewMemory()

	cb, err := ForBackend("osc52", host)
	require.NoError(t, err)
	require.NoError(t, cb.WriteText(context.Background(), "x"))
	assert.Equal(t, "x", host.Text())

	_, err = ForBackend("osc52", nil)
	assert.ErrorIs(t, err, ErrUnavailable)

	cb, err = ForBackend("memory", nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, cb)

	cb, err = ForBackend("none", host)
	require.NoError(t, err)
	assert.Nil(t, cb)

	cb, err = ForBackend("AUTO", host)
	require.NoError(t, err)
	assert.NoError(t, cb.WriteText(context.Background(), "y"))

	_, err = ForBackend("carrier-pigeon", host)
	assert.Error(t, err)
}
