// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/html.go
// Summary: Class-based HTML export and its stylesheet.

package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/framegrace/texelcode/highlight"
)

// HTMLOptions controls HTML output.
type HTMLOptions struct {
	Standalone bool                  // emit a full document with an embedded stylesheet
	Title      string                // document title when standalone
	Table      *highlight.StyleTable // stylesheet source when standalone; nil selects the default style
}

// HTML writes class-mode rows as a <pre> block. Each row is a span with
// class "line" ending in its newline, as chroma's own markup does; each run
// carries its element's classes.
func HTML(w io.Writer, rows []highlight.FlatRow, opts HTMLOptions) error {
	var sb strings.Builder
	if opts.Standalone {
		sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
		if opts.Title != "" {
			fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(opts.Title))
		}
		sb.WriteString("<style>\n")
		if err := Stylesheet(&sb, opts.Table); err != nil {
			return fmt.Errorf("stylesheet: %w", err)
		}
		sb.WriteString("</style>\n")
		sb.WriteString("</head>\n<body>\n")
	}

	sb.WriteString(`<pre class="chroma"><code>`)
	for _, row := range rows {
		sb.WriteString(`<span class="line">`)
		for _, run := range row {
			text := html.EscapeString(run.Text)
			if run.Class == "" {
				sb.WriteString(text)
				continue
			}
			fmt.Fprintf(&sb, `<span class="%s">%s</span>`, html.EscapeString(run.Class), text)
		}
		sb.WriteString("\n</span>")
	}
	sb.WriteString("</code></pre>\n")

	if opts.Standalone {
		sb.WriteString("</body>\n</html>\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Stylesheet writes CSS for table's chroma style. Selectors follow chroma's
// class naming, so ".chroma .kd" matches every run whose classes include
// the exact token type "kd". Tables built without a chroma style use
// DefaultStyleName.
func Stylesheet(w io.Writer, table *highlight.StyleTable) error {
	style := styles.Get(highlight.DefaultStyleName)
	if table != nil && table.Chroma() != nil {
		style = table.Chroma()
	}
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, style)
}
