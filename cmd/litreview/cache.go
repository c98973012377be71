// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/cache"
	"github.com/pdiddy/litreview/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the SQLite extraction cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached extraction records",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSQLiteCache()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Entries(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PAPER\tBACKEND\tYEAR\tREFS\tEXTRACTED\tTITLE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
				e.PaperID, e.Backend, e.Year, e.References, e.ExtractedAt.Format("2006-01-02 15:04"), e.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d cached record(s)\n", len(entries))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction record",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSQLiteCache()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached record(s)\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openSQLiteCache() (*cache.SQLite, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Extraction.Cache.Backend != types.CacheSQLite {
		return nil, fmt.Errorf("cache commands need the sqlite backend, configured backend is %q", cfg.Extraction.Cache.Backend)
	}
	return cache.OpenSQLite(cfg.Extraction.Cache.Path)
}
