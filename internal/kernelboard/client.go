// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/kernelboard/client.go
// Summary: HTTP client for the Kernelboard submission API.

package kernelboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelcode/internal/logging"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read.
var maxBody int64 = 32 << 20

var (
	// ErrUnauthorized means the session is missing or expired; the caller
	// should send the user to the login page.
	ErrUnauthorized = errors.New("kernelboard: unauthorized")
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("kernelboard: not found")
	// ErrTooLarge means a response body exceeded the size cap.
	ErrTooLarge = errors.New("kernelboard: response too large")
)

// APIError is a non-success response not covered by a sentinel error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kernelboard: status %d", e.Status)
	}
	return fmt.Sprintf("kernelboard: status %d: %s", e.Status, e.Message)
}

// Submission is one submitted kernel.
type Submission struct {
	ID          int       `json:"id"`
	FileName    string    `json:"file_name"`
	Code        string    `json:"code"`
	Leaderboard string    `json:"leaderboard"`
	UserName    string    `json:"user_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// envelope is the backend's response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to a Kernelboard backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *log.Logger
}

// New returns a client for baseURL. A non-positive timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// LoginURL is where unauthorized users are sent.
func (c *Client) LoginURL() string {
	return c.BaseURL + "/login"
}

// Submission fetches a submission by id.
func (c *Client) Submission(ctx context.Context, id string) (*Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("kernelboard: empty submission id")
	}
	var sub Submission
	if err := c.get(ctx, "/api/submissions/"+url.PathEscape(id), &sub); err != nil {
		return nil, fmt.Errorf("fetch submission %s: %w", id, err)
	}
	return &sub, nil
}

// SubmissionCall wraps a fetch of submission id in a Call, so callers can
// watch it load and learn where to log in when it is refused.
func (c *Client) SubmissionCall(id string) *Call[*Submission] {
	return NewCall(func(ctx context.Context) (*Submission, error) {
		return c.Submission(ctx, id)
	}, c.LoginURL())
}

func (c *Client) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Default()
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > maxBody {
		return fmt.Errorf("%w: over %d bytes from %s", ErrTooLarge, maxBody, path)
	}
	c.logger().Debug("Kernelboard: request done",
		logging.FieldURL, endpoint,
		logging.FieldStatus, resp.StatusCode,
		"elapsed", time.Since(start))

	var env envelope
	// Error pages may not be JSON; the status code still decides.
	decodeErr := json.Unmarshal(body, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, messageOr(env.Message, resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, messageOr(env.Message, path))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrNotFound)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
