// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelcode/clipboard"
	"github.com/framegrace/texelcode/codeblock"
	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/frame"
)

func newCopyCommand(flags *globalFlags) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "copy <source>",
		Short: "Copy a source to the system clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv(flags)
			defer e.close()
			src, err := e.load(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if backend == "" {
				backend = e.cfg.GetString(config.SectionClipboard, "backend", clipboard.BackendAuto)
			}
			// No screen is attached, so OSC 52 is unavailable here.
			cb, err := clipboard.ForBackend(backend, nil)
			if err != nil {
				return err
			}

			opts := e.blockOptions(src)
			opts.Clipboard = cb
			opts.Scheduler = frame.NewQueue() // copying needs no highlight pass
			block := codeblock.New(src.Content, opts)
			defer block.Close()
			if err := block.Copy(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d lines from %s\n", block.LineCount(), src.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "clipboard backend: auto, command, memory, none")
	return cmd
}
