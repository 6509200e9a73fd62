// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"time"

	"esgcat/cli/internal/config"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// nodesCmd pings the known federation index nodes so users can pick a
// responsive one for their configuration.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Check reachability of the known ESGF index nodes",
	Long: `The nodes command issues a zero-row search against each known federation
index node and reports the round-trip time. Set the fastest reachable node
as index_node in the configuration file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		rows := pterm.TableData{{"NODE", "STATUS", "LATENCY", ""}}
		for _, node := range esgf.DefaultNodes {
			latency, err := esgf.Ping(cmd.Context(), node, cfg.RequestTimeout.Std())
			status := pterm.NewStyle(pterm.FgGreen).Sprint("ok")
			lat := latency.Round(time.Millisecond).String()
			if err != nil {
				status = pterm.NewStyle(pterm.FgRed).Sprint("unreachable")
				lat = "-"
			}
			marker := ""
			if node == cfg.IndexNode {
				marker = "← configured"
			}
			rows = append(rows, []string{httperrors.ExtractHostFromURL(node), status, lat, marker})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
