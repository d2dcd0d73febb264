// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for configuration sections.

package config

// Section names.
const (
	SectionCodeblock = "codeblock"
	SectionClipboard = "clipboard"
	SectionAPI       = "api"
	SectionCache     = "cache"
	SectionLog       = "log"
)

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults(SectionCodeblock, Section{
		"threshold":     200,
		"row_height":    1,
		"overscan":      2,
		"copied_ms":     1500,
		"frame_ms":      16,
		"style":         "catppuccin-mocha",
		"inline_styles": true,
		"max_height":    0,
	})
	cfg.RegisterDefaults(SectionClipboard, Section{
		"backend": "auto",
	})
	cfg.RegisterDefaults(SectionAPI, Section{
		"base_url":   "https://www.gpumode.com",
		"timeout_ms": 15000,
	})
	cfg.RegisterDefaults(SectionCache, Section{
		"enabled":       true,
		"path":          "",
		"max_age_hours": 168,
	})
	cfg.RegisterDefaults(SectionLog, Section{
		"level": "info",
		"file":  "",
	})
}
