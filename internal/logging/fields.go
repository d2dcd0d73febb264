// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

// Field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldPath      = "path"
	FieldSource    = "source"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldLines     = "lines"
	FieldHeight    = "height"
	FieldStrategy  = "strategy"
	FieldLanguage  = "language"
	FieldStyle     = "style"
	FieldBackend   = "backend"
	FieldVersion   = "version"
	FieldCommit    = "commit"
	FieldBuilt     = "built"
)
