// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"esgcat/cli/internal/config"
	"esgcat/cli/internal/inspect"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// verifyCmd scans the local cache for NetCDF files and checks that each
// file actually contains the variable its name declares.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check downloaded NetCDF files in the local cache",
	Long: `The verify command walks the local cache directory, opens every NetCDF
file, and confirms the variable named in the file name exists inside the
file. Truncated or corrupt downloads show up here as unreadable files.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		summaries, err := inspect.Scan(cfg.LocalCache)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			pterm.Printf("No NetCDF files under %s\n", cfg.LocalCache)
			return nil
		}

		var bad int
		rows := pterm.TableData{{"STATUS", "VARIABLE", "FILE"}}
		for _, s := range summaries {
			status := pterm.NewStyle(pterm.FgGreen).Sprint("ok")
			switch {
			case s.Err != nil:
				status = pterm.NewStyle(pterm.FgRed).Sprint("unreadable")
				bad++
			case !s.OK:
				status = pterm.NewStyle(pterm.FgYellow).Sprint("missing variable")
				bad++
			}
			rows = append(rows, []string{status, s.Variable, s.Path})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}

		pterm.Printf("\n%d files checked, %d problems\n", len(summaries), bad)
		if bad > 0 {
			return fmt.Errorf("%d of %d files failed verification", bad, len(summaries))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
