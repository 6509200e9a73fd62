// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"path/filepath"

	"esgcat/cli/internal/cache"
	"esgcat/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var cacheClear bool

// cacheCmd shows where the local cache lives and how large the response
// cache has grown, and can drop cached search responses.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear the local search-response cache",
	Long: `The cache command displays the local cache directory and the size of the
stored search responses. With --clear, all cached responses are dropped;
downloaded data files are never touched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, err := cache.Open(filepath.Join(cfg.LocalCache, "cache"), cfg.CacheTTL.Std())
		if err != nil {
			return err
		}
		defer store.Close()

		if cacheClear {
			if err := store.Clear(); err != nil {
				return err
			}
			pterm.Println("Response cache cleared.")
			return nil
		}

		entries, bytes, err := store.Stats()
		if err != nil {
			return err
		}
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Local Cache")).
			WithLeftPadding(1).
			WithRightPadding(1).
			WithTopPadding(1).
			WithBottomPadding(1).
			Printfln("directory: %s\nresponses: %d (%s)\nttl:       %s",
				cfg.LocalCache, entries, cache.HumanSize(bytes), cfg.CacheTTL.Std())
		return nil
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "drop all cached search responses")
	rootCmd.AddCommand(cacheCmd)
}
