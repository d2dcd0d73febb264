// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetStore(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	once = sync.Once{}
	system = nil
	loadErr = nil
	override = ""
	t.Cleanup(func() {
		once = sync.Once{}
		override = ""
	})
}

func readDisk(t *testing.T) Config {
	t.Helper()
	path, err := Path()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var disk Config
	require.NoError(t, json.Unmarshal(data, &disk))
	return disk
}

func TestDefaultsWrittenOnFirstLoad(t *testing.T) {
	resetStore(t)

	cfg := System()
	require.NoError(t, Err())
	assert.Equal(t, 200, cfg.GetInt(SectionCodeblock, "threshold", 0))
	assert.Equal(t, 1500*time.Millisecond, cfg.GetMillis(SectionCodeblock, "copied_ms", 0))

	disk := readDisk(t)
	assert.NotNil(t, disk.Section(SectionCodeblock))
	assert.NotNil(t, disk.Section(SectionAPI))
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	resetStore(t)

	SetSystem(Config{SectionCodeblock: Section{"threshold": 50}})
	require.NoError(t, SaveSystem())

	disk := readDisk(t)
	assert.Equal(t, 50, disk.GetInt(SectionCodeblock, "threshold", 0))
	assert.Equal(t, "info", disk.GetString(SectionLog, "level", ""), "defaults are filled in")
}

func TestExistingValuesSurviveDefaults(t *testing.T) {
	resetStore(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"codeblock":{"style":"monokai"}}`), 0o644))
	SetPath(path)

	cfg := System()
	require.NoError(t, Err())
	assert.Equal(t, "monokai", cfg.GetString(SectionCodeblock, "style", ""))
	assert.Equal(t, 2, cfg.GetInt(SectionCodeblock, "overscan", 0))
}

func TestMalformedFileReportsError(t *testing.T) {
	resetStore(t)
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	SetPath(path)

	cfg := System()
	assert.Error(t, Err())
	assert.Equal(t, 200, cfg.GetInt(SectionCodeblock, "threshold", 0), "defaults still apply")

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	require.NoError(t, Reload())
	assert.Equal(t, 200, System().GetInt(SectionCodeblock, "threshold", 0))
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": map[string]any{
			"int":    float64(7),
			"num":    json.Number("3"),
			"str":    "42",
			"bool":   "true",
			"float":  1,
			"string": "x",
		},
	}
	assert.Equal(t, 7, cfg.GetInt("s", "int", 0))
	assert.Equal(t, 3, cfg.GetInt("s", "num", 0))
	assert.Equal(t, 42, cfg.GetInt("s", "str", 0))
	assert.True(t, cfg.GetBool("s", "bool", false))
	assert.Equal(t, 1.0, cfg.GetFloat("s", "float", 0))
	assert.Equal(t, "x", cfg.GetString("s", "string", ""))
	assert.Equal(t, "d", cfg.GetString("missing", "string", "d"))
	assert.Equal(t, 5*time.Millisecond, cfg.GetMillis("s", "nope", 5*time.Millisecond))
}

func TestRegisterDefaultsKeepsExisting(t *testing.T) {
	cfg := Config{"a": Section{"x": 1}}
	cfg.RegisterDefaults("a", Section{"x": 2, "y": 3})
	cfg.RegisterDefaults("", Section{"top": true})

	assert.Equal(t, 1, cfg.GetInt("a", "x", 0))
	assert.Equal(t, 3, cfg.GetInt("a", "y", 0))
	assert.True(t, cfg.GetBool("", "top", false))
}

func TestCloneCopiesSections(t *testing.T) {
	orig := Config{"a": Section{"x": 1}, "b": map[string]any{"y": 2}}
	c := Clone(orig)
	c.Set("a", "x", 9)
	c.Set("new", "z", 1)

	assert.Equal(t, 1, orig.GetInt("a", "x", 0))
	assert.Equal(t, 9, c.GetInt("a", "x", 0))
	assert.Nil(t, orig.Section("new"))
	assert.Nil(t, Clone(nil))
}
