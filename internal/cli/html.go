// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/framegrace/texelcode/render"
)

func newHTMLCommand(flags *globalFlags) *cobra.Command {
	var (
		standalone bool
		output     string
	)
	cmd := &cobra.Command{
		Use:   "html <source>",
		Short: "Export a source as class-styled HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv(flags)
			defer e.close()
			src, err := e.load(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			block, rows := highlightRows(e, src, false)
			defer block.Close()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := render.HTML(w, rows, render.HTMLOptions{
				Standalone: standalone,
				Title:      src.Name,
				Table:      block.StyleTable(),
			}); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&standalone, "standalone", false, "emit a complete document with a stylesheet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
