// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCachedCommand(flags *globalFlags) *cobra.Command {
	var (
		limit int
		prune time.Duration
	)
	cmd := &cobra.Command{
		Use:   "cached [query]",
		Short: "List cached sources, optionally filtered by content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEnv(flags)
			defer e.close()
			e.openCache()
			if e.cache == nil {
				return errors.New("source cache is disabled")
			}
			if prune > 0 {
				n, err := e.cache.Prune(time.Now().Add(-prune))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries\n", n)
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entries, err := e.cache.Search(query, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Key, entry.Name, entry.Language, entry.FetchedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to list")
	cmd.Flags().DurationVar(&prune, "prune", 0, "remove entries older than this first")
	return cmd
}
