// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"

	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/internal/logging"
	"github.com/framegrace/texelcode/internal/runner"
)

func newViewCommand(flags *globalFlags) *cobra.Command {
	var bordered bool
	cmd := &cobra.Command{
		Use:   "view <source>",
		Short: "Open a source in the interactive viewer",
		Long: `Open a source in the interactive viewer.

Keys: j/k or arrows scroll, PgUp/PgDn page, Home/End or g/G jump,
c copies the whole source, b toggles the border, q or Ctrl-C quits.
When stdout is not a terminal the source is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv(flags)
			defer e.close()
			src, err := e.load(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return printSource(cmd.OutOrStdout(), e, src, printOptions{bordered: bordered, color: "never"})
			}

			// The viewer owns the terminal; logs go to a file.
			logPath := flags.logFile
			if logPath == "" {
				logPath = e.cfg.GetString(config.SectionLog, "file", "")
			}
			if logPath == "" {
				if logPath, err = logging.DefaultLogPath(); err != nil {
					return err
				}
			}
			f, err := logging.OpenFile(logPath)
			if err != nil {
				return err
			}
			defer f.Close()
			prev := logging.Default()
			fileLogger := logging.New(levelOf(flags, e), f)
			logging.SetDefault(fileLogger)
			defer logging.SetDefault(prev)
			e.logger = fileLogger

			return runner.Run(cmd.Context(), src.Content, runner.Options{
				Codeblock: e.blockOptions(src),
				Bordered:  bordered,
				Title:     src.Name,
				Clipboard: e.cfg.GetString(config.SectionClipboard, "backend", "auto"),
				Logger:    fileLogger,
			})
		},
	}
	cmd.Flags().BoolVar(&bordered, "bordered", false, "start with the border on")
	return cmd
}

func levelOf(flags *globalFlags, e *env) string {
	if flags.debug {
		return "debug"
	}
	return e.cfg.GetString(config.SectionLog, "level", "info")
}
