// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load logic for the config store.

package config

import "github.com/framegrace/texelcode/internal/logging"

func loadSystemLocked() error {
	logger := logging.Default().With(logging.FieldComponent, "config")

	path, err := systemConfigPath()
	if err != nil {
		logger.Warn("Config: failed to resolve config path", logging.FieldError, err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		logger.Warn("Config: failed to read config", logging.FieldPath, path, logging.FieldError, readErr)
		cfg = make(Config)
	}

	// Missing or empty files are seeded from the embedded defaults.
	if (!exists || len(cfg) == 0) && readErr == nil {
		if def := defaultSystemConfig(); def != nil {
			cfg = def
			if err := writeConfig(path, cfg); err != nil {
				logger.Warn("Config: failed to write default config", logging.FieldPath, path, logging.FieldError, err)
				readErr = err
			}
		}
	}
	applySystemDefaults(cfg)

	system = cfg
	if readErr == nil && exists {
		logger.Debug("Config: loaded", logging.FieldPath, path)
	}
	return readErr
}
