// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/source/source.go
// Summary: Resolves source references into text to display.
//
// A reference is a file path, "-" for stdin, an http(s) URL or
// "submission:<id>". Remote text is cached and served from the cache when
// fetching fails, unless the backend refused the session.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelcode/internal/cache"
	"github.com/framegrace/texelcode/internal/kernelboard"
	"github.com/framegrace/texelcode/internal/langdetect"
	"github.com/framegrace/texelcode/internal/logging"
)

// SubmissionPrefix marks a Kernelboard submission reference.
const SubmissionPrefix = "submission:"

// maxSize caps how much text is read from any source.
var maxSize int64 = 64 << 20

// ErrTooLarge reports a source over the size cap.
var ErrTooLarge = errors.New("source too large")

// Kind is the type of a reference.
type Kind int

const (
	KindFile Kind = iota
	KindStdin
	KindURL
	KindSubmission
)

// Source is loaded text ready for display.
type Source struct {
	Ref      string
	Name     string
	Content  string
	Language string // chroma lexer name or alias, "" when unknown
	Cached   bool   // served from the cache after a failed fetch
}

// Options supplies the collaborators Load may need.
type Options struct {
	Stdin  io.Reader
	HTTP   *http.Client
	API    *kernelboard.Client
	Cache  *cache.Cache
	Logger *log.Logger
	// Watch, when set, is called as a submission fetch starts. loading
	// reports whether that fetch is still in flight.
	Watch func(ref string, loading func() bool)
}

// Classify returns the kind of ref.
func Classify(ref string) Kind {
	switch {
	case ref == "-":
		return KindStdin
	case strings.HasPrefix(ref, SubmissionPrefix):
		return KindSubmission
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return KindURL
	}
	return KindFile
}

// Load reads ref.
func Load(ctx context.Context, ref string, opts Options) (*Source, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	var (
		src *Source
		err error
	)
	switch Classify(ref) {
	case KindStdin:
		src, err = loadStdin(opts.Stdin)
	case KindFile:
		src, err = loadFile(ref)
	case KindURL, KindSubmission:
		src, err = loadRemote(ctx, ref, opts, logger)
	}
	if err != nil {
		return nil, err
	}
	if src.Language == "" {
		src.Language = langdetect.LexerAlias(langdetect.Detect(src.Name, []byte(src.Content)))
	}
	logger.Debug("Source: loaded",
		logging.FieldSource, ref,
		logging.FieldLanguage, src.Language,
		"bytes", len(src.Content),
		"cached", src.Cached)
	return src, nil
}

func loadStdin(r io.Reader) (*Source, error) {
	if r == nil {
		r = os.Stdin
	}
	data, err := readCapped(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return &Source{Ref: "-", Name: "stdin", Content: string(data)}, nil
}

func loadFile(p string) (*Source, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := readCapped(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return &Source{Ref: p, Name: filepath.Base(p), Content: string(data)}, nil
}

func loadRemote(ctx context.Context, ref string, opts Options, logger *log.Logger) (*Source, error) {
	var (
		src *Source
		err error
	)
	if Classify(ref) == KindSubmission {
		src, err = fetchSubmission(ctx, ref, opts)
	} else {
		src, err = fetchURL(ctx, ref, opts.HTTP)
	}

	if err == nil {
		if opts.Cache != nil {
			if perr := opts.Cache.Put(cache.Entry{Key: ref, Name: src.Name, Language: src.Language, Content: src.Content}); perr != nil {
				logger.Warn("Source: cache write failed", logging.FieldSource, ref, logging.FieldError, perr)
			}
		}
		return src, nil
	}

	// A refused session needs a login; stale text would hide that.
	if opts.Cache != nil && !errors.Is(err, kernelboard.ErrUnauthorized) {
		entry, cerr := opts.Cache.Get(ref)
		if cerr == nil {
			logger.Warn("Source: fetch failed, using cached copy",
				logging.FieldSource, ref,
				logging.FieldError, err,
				"fetched_at", entry.FetchedAt)
			return &Source{Ref: ref, Name: entry.Name, Language: entry.Language, Content: entry.Content, Cached: true}, nil
		}
		if !errors.Is(cerr, cache.ErrMiss) {
			logger.Warn("Source: cache read failed", logging.FieldSource, ref, logging.FieldError, cerr)
		}
	}
	return nil, err
}

func fetchSubmission(ctx context.Context, ref string, opts Options) (*Source, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("no API client configured for %s", ref)
	}
	call := opts.API.SubmissionCall(strings.TrimPrefix(ref, SubmissionPrefix))
	if opts.Watch != nil {
		opts.Watch(ref, call.Loading)
	}
	sub, err := call.Run(ctx)
	if err != nil {
		if login := call.RedirectTo(); login != "" {
			return nil, fmt.Errorf("%w (log in at %s)", err, login)
		}
		return nil, err
	}
	name := sub.FileName
	if name == "" {
		name = fmt.Sprintf("submission-%d", sub.ID)
	}
	return &Source{
		Ref:      ref,
		Name:     name,
		Content:  sub.Code,
		Language: langdetect.LexerAlias(langdetect.Detect(name, []byte(sub.Code))),
	}, nil
}

func fetchURL(ctx context.Context, rawURL string, client *http.Client) (*Source, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}
	data, err := readCapped(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	name := path.Base(req.URL.Path)
	if name == "/" || name == "." {
		name = req.URL.Host
	}
	return &Source{Ref: rawURL, Name: name, Content: string(data)}, nil
}

// readCapped reads r whole, failing rather than truncating past maxSize.
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, maxSize)
	}
	return data, nil
}
