// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: clipboard/clipboard.go
// Summary: System clipboard backends.

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/framegrace/texelui/core"
)

// ErrUnavailable is returned when no clipboard backend can be used.
var ErrUnavailable = errors.New("clipboard: no backend available")

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Func adapts a function to Clipboard.
type Func func(ctx context.Context, text string) error

// WriteText implements Clipboard.
func (f Func) WriteText(ctx context.Context, text string) error { return f(ctx, text) }

// MIMEText is the MIME type text is written with.
const MIMEText = "text/plain"

// Service writes through a host clipboard service. The standalone texelui
// runtime backs it with OSC 52 on the terminal, which gives no
// acknowledgement, so a write only fails when ctx is already done.
type Service struct {
	svc core.ClipboardService
}

// NewService returns a Clipboard writing through svc.
func NewService(svc core.ClipboardService) *Service {
	return &Service{svc: svc}
}

// WriteText implements Clipboard.
func (s *Service) WriteText(ctx context.Context, text string) error {
	if s.svc == nil {
		return ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.svc.SetClipboard(MIMEText, []byte(text))
	return nil
}

// Command pipes text into a platform clipboard tool.
type Command struct {
	Name string
	Args []string
}

// knownCommands lists clipboard tools in preference order.
func knownCommands() []Command {
	var cmds []Command
	switch runtime.GOOS {
	case "darwin":
		cmds = append(cmds, Command{Name: "pbcopy"})
	case "windows":
		cmds = append(cmds, Command{Name: "clip.exe"})
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		cmds = append(cmds, Command{Name: "wl-copy"})
	}
	return append(cmds,
		Command{Name: "xclip", Args: []string{"-selection", "clipboard"}},
		Command{Name: "xsel", Args: []string{"--clipboard", "--input"}},
	)
}

// DetectCommand returns the first clipboard tool found in PATH.
func DetectCommand() (*Command, error) {
	for _, c := range knownCommands() {
		if _, err := exec.LookPath(c.Name); err == nil {
			return &c, nil
		}
	}
	return nil, ErrUnavailable
}

// WriteText implements Clipboard.
func (c *Command) WriteText(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.Name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

// Fallback tries each backend in order and stops at the first success.
type Fallback []Clipboard

// WriteText implements Clipboard.
func (f Fallback) WriteText(ctx context.Context, text string) error {
	if len(f) == 0 {
		return ErrUnavailable
	}
	var errs []error
	for _, c := range f {
		if c == nil {
			continue
		}
		err := c.WriteText(ctx, text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return ErrUnavailable
	}
	return errors.Join(errs...)
}

// Memory keeps the last written text in memory. It is also a
// core.ClipboardService, so it can stand in for a host clipboard.
type Memory struct {
	mu     sync.Mutex
	mime   string
	text   string
	writes int
	err    error
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory { return &Memory{} }

// FailWith makes every later write fail with err; nil clears it.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// WriteText implements Clipboard.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.mime = MIMEText
	m.text = text
	m.writes++
	return nil
}

// SetClipboard implements core.ClipboardService.
func (m *Memory) SetClipboard(mime string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mime = mime
	m.text = string(data)
	m.writes++
}

// GetClipboard implements core.ClipboardService.
func (m *Memory) GetClipboard() (string, []byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writes == 0 {
		return "", nil, false
	}
	return m.mime, []byte(m.text), true
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Backend names accepted by ForBackend.
const (
	BackendAuto    = "auto"
	BackendOSC52   = "osc52"
	BackendCommand = "command"
	BackendMemory  = "memory"
	BackendNone    = "none"
)

// ForBackend builds the clipboard named by backend. svc is the host's
// clipboard service and may be nil when no terminal is attached; "auto"
// then only tries a command.
func ForBackend(backend string, svc core.ClipboardService) (Clipboard, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		var chain Fallback
		if cmd, err := DetectCommand(); err == nil {
			chain = append(chain, cmd)
		}
		if svc != nil {
			chain = append(chain, NewService(svc))
		}
		if len(chain) == 0 {
			return nil, ErrUnavailable
		}
		return chain, nil
	case BackendOSC52:
		if svc == nil {
			return nil, fmt.Errorf("osc52: %w", ErrUnavailable)
		}
		return NewService(svc), nil
	case BackendCommand:
		cmd, err := DetectCommand()
		if err != nil {
			return nil, err
		}
		return cmd, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return nil, nil
	}
	return nil, fmt.Errorf("clipboard: unknown backend %q", backend)
}
