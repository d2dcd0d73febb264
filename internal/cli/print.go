// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelcode/codeblock"
	"github.com/framegrace/texelcode/frame"
	"github.com/framegrace/texelcode/highlight"
	"github.com/framegrace/texelcode/internal/source"
	"github.com/framegrace/texelcode/render"
)

type printOptions struct {
	bordered bool
	color    string
}

func newPrintCommand(flags *globalFlags) *cobra.Command {
	opts := &printOptions{}
	cmd := &cobra.Command{
		Use:   "print <source>",
		Short: "Print a highlighted source to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv(flags)
			defer e.close()
			src, err := e.load(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return printSource(cmd.OutOrStdout(), e, src, *opts)
		},
	}
	cmd.Flags().BoolVar(&opts.bordered, "bordered", false, "draw a border around the code")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "colorize output: auto, always, never")
	return cmd
}

// highlightRows runs the highlight pass for src and returns its rows.
func highlightRows(e *env, src *source.Source, inline bool) (*codeblock.CodeBlock, []highlight.FlatRow) {
	queue := frame.NewQueue()
	opts := e.blockOptions(src)
	opts.Scheduler = queue
	opts.Inline = inline
	block := codeblock.New(src.Content, opts)
	queue.Flush()
	return block, block.Rows()
}

func printSource(w io.Writer, e *env, src *source.Source, opts printOptions) error {
	profile, err := colorProfile(w, opts.color)
	if err != nil {
		return err
	}
	block, rows := highlightRows(e, src, true)
	defer block.Close()
	base := block.StyleTable().Base()
	return render.ANSI(w, rows, render.ANSIOptions{
		Bordered: opts.bordered,
		Title:    fmt.Sprintf("%s · %s", src.Name, block.Language()),
		Base:     highlight.Style{Fg: base.Fg},
		Profile:  profile,
	})
}

func colorProfile(w io.Writer, mode string) (termenv.Profile, error) {
	switch mode {
	case "never":
		return termenv.Ascii, nil
	case "always":
		return termenv.TrueColor, nil
	case "auto", "":
		if isTerminal(w) {
			return termenv.EnvColorProfile(), nil
		}
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
