// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelcode/codeblock"
	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/internal/cache"
	"github.com/framegrace/texelcode/internal/kernelboard"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/internal/source"
)

// env holds what a command needs to load and show a source.
type env struct {
	cfg    config.Config
	flags  *globalFlags
	logger *log.Logger
	api    *kernelboard.Client
	cache  *cache.Cache
}

func newEnv(flags *globalFlags) *env {
	cfg := config.System()
	if err := config.Err(); err != nil {
		logging.Default().Warn("Config: using defaults", logging.FieldError, err)
	}
	return &env{
		cfg:    cfg,
		flags:  flags,
		logger: logging.Default(),
		api: kernelboard.New(
			cfg.GetString(config.SectionAPI, "base_url", ""),
			cfg.GetMillis(config.SectionAPI, "timeout_ms", kernelboard.DefaultTimeout),
		),
	}
}

// openCache opens the source cache when enabled and prunes stale entries.
// A cache that cannot be opened is logged and skipped.
func (e *env) openCache() {
	if !e.cfg.GetBool(config.SectionCache, "enabled", true) {
		return
	}
	path := e.cfg.GetString(config.SectionCache, "path", "")
	if path == "" {
		p, err := cache.DefaultPath()
		if err != nil {
			e.logger.Warn("Cache: no cache directory", logging.FieldError, err)
			return
		}
		path = p
	}
	c, err := cache.Open(path)
	if err != nil {
		e.logger.Warn("Cache: disabled", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	if hours := e.cfg.GetInt(config.SectionCache, "max_age_hours", 0); hours > 0 {
		if _, err := c.Prune(time.Now().Add(-time.Duration(hours) * time.Hour)); err != nil {
			e.logger.Warn("Cache: prune failed", logging.FieldError, err)
		}
	}
	e.cache = c
}

func (e *env) close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
}

// load resolves ref. Unauthorized submissions report the login URL.
func (e *env) load(ctx context.Context, ref string, stdin io.Reader) (*source.Source, error) {
	if f, ok := stdin.(*os.File); ok && ref == "-" && isTerminal(f) {
		return nil, errors.New("refusing to read a source from an interactive stdin; pipe it in")
	}
	e.openCache()
	return source.Load(ctx, ref, source.Options{
		Stdin:  stdin,
		HTTP:   e.api.HTTP,
		API:    e.api,
		Cache:  e.cache,
		Logger: e.logger,
		Watch:  e.watchFetch,
	})
}

// slowFetch is how long a fetch may run before the user is told about it.
const slowFetch = 250 * time.Millisecond

func (e *env) watchFetch(ref string, loading func() bool) {
	logger := e.logger
	time.AfterFunc(slowFetch, func() {
		if loading() {
			logger.Info("Fetching submission", logging.FieldSource, ref)
		}
	})
}

// blockOptions returns code block options for src, with flags applied.
func (e *env) blockOptions(src *source.Source) codeblock.Options {
	opts := codeblock.OptionsFromConfig(e.cfg)
	opts.Logger = e.logger
	opts.Filename = src.Name
	opts.Language = src.Language
	if e.flags.language != "" {
		opts.Language = e.flags.language
	}
	if e.flags.style != "" {
		opts.StyleName = e.flags.style
	}
	return opts
}
