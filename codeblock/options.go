// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package codeblock

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/frame"
	"github.com/framegrace/texelcode/highlight"
	"github.com/framegrace/texelcode/window"
)

// Options configures a CodeBlock.
type Options struct {
	Threshold     int           // lines above which windowing is considered
	RowHeight     int           // height of one row in observed-height units
	Overscan      int           // rows drawn beyond each viewport edge; negative selects the default
	CopiedFor     time.Duration // lifetime of the copy indicator
	FrameInterval time.Duration // frame period for hosts that drive a frame.Clock
	StyleName     string        // chroma style name
	Inline        bool          // resolve styles while flattening
	MaxHeight     int           // cap for PreferredHeight, 0 for none
	Language      string        // language hint, e.g. "go" or "Cuda"
	Filename      string        // filename hint for lexer matching

	Scheduler frame.Scheduler     // defaults to frame.Immediate
	Clipboard clipboard.Clipboard // nil makes Copy fail with ErrUnavailable
	Logger    *log.Logger         // defaults to logging.Default()
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		RowHeight:     1,
		Overscan:      window.DefaultOverscan,
		CopiedFor:     DefaultCopiedFor,
		FrameInterval: frame.DefaultInterval,
		StyleName:     highlight.DefaultStyleName,
		Inline:        true,
	}
}

// OptionsFromConfig maps the codeblock config section onto Options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	s := config.SectionCodeblock
	opts.Threshold = cfg.GetInt(s, "threshold", opts.Threshold)
	opts.RowHeight = cfg.GetInt(s, "row_height", opts.RowHeight)
	opts.Overscan = cfg.GetInt(s, "overscan", opts.Overscan)
	opts.CopiedFor = cfg.GetMillis(s, "copied_ms", opts.CopiedFor)
	opts.FrameInterval = cfg.GetMillis(s, "frame_ms", opts.FrameInterval)
	opts.StyleName = cfg.GetString(s, "style", opts.StyleName)
	opts.Inline = cfg.GetBool(s, "inline_styles", opts.Inline)
	opts.MaxHeight = cfg.GetInt(s, "max_height", opts.MaxHeight)
	return opts
}
