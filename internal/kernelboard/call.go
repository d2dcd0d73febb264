// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/kernelboard/call.go
// Summary: Loading, error and login-redirect state around one API fetch.

package kernelboard

import (
	"context"
	"errors"
	"sync"
)

// Call runs a fetch and records its state for a UI to show. An
// ErrUnauthorized result sets RedirectTo to the login URL.
type Call[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	loginURL string

	mu       sync.Mutex
	loading  bool
	data     T
	err      error
	redirect string
}

// NewCall wraps fetch.
func NewCall[T any](fetch func(ctx context.Context) (T, error), loginURL string) *Call[T] {
	return &Call[T]{fetch: fetch, loginURL: loginURL}
}

// Run performs the fetch. Earlier data is kept when the fetch fails.
func (c *Call[T]) Run(ctx context.Context) (T, error) {
	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.redirect = ""
	c.mu.Unlock()

	data, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		if errors.Is(err, ErrUnauthorized) {
			c.redirect = c.loginURL
		}
		return data, err
	}
	c.data = data
	return data, nil
}

// Loading reports whether a fetch is in flight.
func (c *Call[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Data returns the last successful result.
func (c *Call[T]) Data() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Err returns the error of the last fetch.
func (c *Call[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Status returns the HTTP status of the last failure, or 0.
func (c *Call[T]) Status() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var apiErr *APIError
	switch {
	case c.err == nil:
		return 0
	case errors.Is(c.err, ErrUnauthorized):
		return 401
	case errors.Is(c.err, ErrNotFound):
		return 404
	case errors.As(c.err, &apiErr):
		return apiErr.Status
	}
	return 0
}

// RedirectTo returns the login URL after an unauthorized fetch.
func (c *Call[T]) RedirectTo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect
}
