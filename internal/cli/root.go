// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the Cobra command structure for texelcode.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/framegrace/texelcode/config"
	"github.com/framegrace/texelcode/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	logFile    string
	style      string
	language   string
}

// NewRootCommand creates the root texelcode command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "texelcode",
		Short: "Terminal viewer for kernel submissions and source files",
		Long: `texelcode shows source code in the terminal with syntax highlighting.

Large files are drawn through a scrolling window so only the visible rows
are highlighted. Sources can be local files, stdin ("-"), http(s) URLs or
Kernelboard submissions ("submission:<id>"); fetched sources are cached for
offline use.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.configPath != "" {
				config.SetPath(flags.configPath)
				if err := config.Reload(); err != nil {
					return err
				}
			}
			level := config.System().GetString(config.SectionLog, "level", "info")
			if flags.debug {
				level = "debug"
			}
			logging.SetDefault(logging.New(level, cmd.ErrOrStderr()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.configPath, "config", "", "path to config file")
	pf.StringVar(&flags.logFile, "log-file", "", "log file used while the viewer owns the terminal")
	pf.StringVar(&flags.style, "style", "", "chroma style name (overrides config)")
	pf.StringVar(&flags.language, "language", "", "language hint, e.g. go, python, cuda")

	rootCmd.AddCommand(newViewCommand(flags))
	rootCmd.AddCommand(newPrintCommand(flags))
	rootCmd.AddCommand(newHTMLCommand(flags))
	rootCmd.AddCommand(newCopyCommand(flags))
	rootCmd.AddCommand(newCachedCommand(flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
