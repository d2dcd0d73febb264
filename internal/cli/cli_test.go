// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/texelcode/internal/cli"
)

// execute runs the root command with an isolated config and cache.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	cfgPath := filepath.Join(dir, "texelcode.json")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte(`{"cache":{"path":"`+filepath.ToSlash(filepath.Join(dir, "sources.db"))+`"},"log":{"level":"error"}}`), 0o644))

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := cli.NewRootCommand(cli.BuildInfo{})
	assert.Equal(t, "texelcode", cmd.Use)
	assert.NotEmpty(t, cmd.Long)
	for _, name := range []string{"view", "print", "html", "copy", "cached", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestPrintPlain(t *testing.T) {
	p := writeSource(t, "main.go", "package main\n\nfunc main() {}")
	out, err := execute(t, "", "print", "--color", "never", p)
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}\n", out)
}

func TestPrintBorderedFromStdin(t *testing.T) {
	out, err := execute(t, "import torch\n", "print", "--color", "never", "--bordered", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "stdin")
	assert.Contains(t, out, "import torch")
}

func TestPrintRejectsBadColor(t *testing.T) {
	p := writeSource(t, "a.txt", "x")
	_, err := execute(t, "", "print", "--color", "sometimes", p)
	assert.Error(t, err)
}

func TestHTMLStandalone(t *testing.T) {
	p := writeSource(t, "k.py", "def f():\n    return 1 < 2\n")
	out, err := execute(t, "", "html", "--standalone", p)
	require.NoError(t, err)
	assert.Contains(t, out, "<style>")
	assert.Contains(t, out, `<span class="line">`)
	assert.Contains(t, out, `<span class="token k`)
	assert.Contains(t, out, "&lt;")
}

func TestCopyMemoryBackend(t *testing.T) {
	p := writeSource(t, "a.c", "int main(void)\n{\n}\n")
	out, err := execute(t, "", "copy", "--backend", "memory", p)
	require.NoError(t, err)
	assert.Equal(t, "copied 4 lines from a.c\n", out)
}

func TestViewFallsBackToPrintWhenNotATerminal(t *testing.T) {
	p := writeSource(t, "a.go", "package a")
	out, err := execute(t, "", "view", p)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", out)
}

func TestCachedEmpty(t *testing.T) {
	out, err := execute(t, "", "cached")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc")
}

func TestMissingSource(t *testing.T) {
	_, err := execute(t, "", "print", filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}
