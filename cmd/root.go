// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the esgcat application.
// It implements subcommands for searching the ESGF federation, the carbon
// cycle model survey, downloading matched files, and cache inspection, using
// the Cobra CLI framework with pterm terminal output.
package cmd

import (
	"fmt"
	"os"
	"time"

	"esgcat/cli/internal/config"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/httperrors"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "esgcat",
	Short:         "esgcat queries the ESGF federation for CMIP6 model output",
	Long:          `esgcat is a command-line client for the ESGF search API. It finds CMIP6 datasets by facet, surveys which models publish a complete land carbon cycle, and downloads matched files into a local cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("esgcat %s\n", Version)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			latency, err := esgf.Ping(cmd.Context(), cfg.IndexNode, cfg.RequestTimeout.Std())
			host := httperrors.ExtractHostFromURL(cfg.IndexNode)
			if err != nil {
				fmt.Printf("index node %s: unreachable (%v)\n", host, err)
				return nil
			}
			fmt.Printf("index node %s: ok (%s)\n", host, latency.Round(time.Millisecond))
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and index node reachability")
}
