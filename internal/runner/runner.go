// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/runner.go
// Summary: Runs the viewer app in a local terminal session.

package runner

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/framegrace/texelui/core"
	"github.com/framegrace/texelui/runtime"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcode/codeblock"
)

// Options configures Run.
type Options struct {
	Codeblock codeblock.Options
	Bordered  bool
	Title     string
	// Clipboard is a backend name for clipboard.ForBackend. It is used
	// only when Codeblock.Clipboard is nil.
	Clipboard string
	Logger    *log.Logger
}

// Run shows content until the user quits or ctx is done. The terminal
// comes from texelui's runtime; tests swap it with runtime.SetScreenFactory.
func Run(ctx context.Context, content string, opts Options) error {
	build := func([]string) (core.App, error) {
		return NewApp(ctx, content, opts), nil
	}
	return runtime.RunWithOptions(build, runtime.Options{ExitKey: tcell.KeyCtrlC})
}
