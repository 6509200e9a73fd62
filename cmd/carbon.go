// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"esgcat/cli/internal/carbon"
	"esgcat/cli/internal/catalog"
	"esgcat/cli/internal/config"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	carbonExperiment string
	carbonFrequency  string
	carbonCSV        string
	verboseCarbon    bool
)

// carbonCmd surveys which CMIP6 models publish a complete land carbon
// cycle and rebuilds the full monthly-land variable table for each of them.
var carbonCmd = &cobra.Command{
	Use:   "carbon",
	Short: "Find CMIP6 models with a complete land carbon cycle",
	Long: `The carbon command runs the carbon-cycle model survey:

  1. a broad search for the probe variables (cSoil, cSoilAbove1m, cVeg,
     gpp, lai, nbp, netAtmosLandCO2Flux) in the chosen experiment;
  2. a completeness filter over each (source_id, member_id, grid_label)
     group, requiring soil carbon, land-atmosphere CO2 flux, and all of
     cVeg/gpp/lai;
  3. ensemble deduplication, keeping the smallest member per model;
  4. one narrow re-search per surviving group for the full monthly land
     variable list, concatenated into a single table.

The per-group re-searches keep each request small enough for the index
node's query-size limits. They run sequentially; a failing group aborts
the survey.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseCarbon {
			os.Setenv("ESGCAT_VERBOSE", "1")
		}
		ctx := cmd.Context()
		startAt := time.Now()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, closeCache := newSearchClient(cfg)
		defer closeCache()

		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Index node: ") +
			pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(httperrors.ExtractHostFromURL(cfg.IndexNode)))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Experiment: ") +
			pterm.NewStyle(pterm.FgCyan).Sprint(carbonExperiment))
		pterm.Println()

		base := esgf.Query{ExperimentID: carbonExperiment, Frequency: carbonFrequency}

		// Broad availability probe.
		probe := base
		probe.VariableID = carbon.ProbeVariables
		cat := catalog.New(client)
		stopSpinner := startInlineSpinner(os.Stdout, "Searching for carbon cycle probe variables...", spinnerFrames, 100*time.Millisecond)
		err = cat.Search(ctx, probe)
		stopSpinner()
		if err != nil {
			return httperrors.FormatNetworkError(err, "searching for probe variables")
		}
		pterm.Printf("Probe search returned %d datasets\n", cat.Len())

		// Keep complete groups only, then a single ensemble member each.
		cat.RemoveIncomplete(carbon.CompleteGroup).RemoveEnsembles()
		groups := cat.ModelGroups()
		if len(groups) == 0 {
			pterm.Warning.Println("No model group carries a complete carbon cycle for this experiment.")
			return nil
		}
		pterm.Printf("%d model groups carry a complete carbon cycle\n", len(groups))
		pterm.Println()

		// Per-group requery for the full variable list.
		combined, err := carbon.CombineGroups(ctx, client, base, groups, func(g catalog.ModelGroup) {
			pterm.Printf("  %s %s %s %s\n",
				pterm.NewStyle(pterm.FgLightBlue).Sprint("searching"),
				pterm.NewStyle(pterm.Bold).Sprint(g.SourceID), g.MemberID, g.GridLabel)
		})
		if err != nil {
			return httperrors.FormatNetworkError(err, "re-searching model groups")
		}

		pterm.Println()
		renderGroupTable(combined)
		pterm.Printf("\n%d datasets across %d model groups in %s\n",
			combined.Len(), len(groups), time.Since(startAt).Round(time.Second))

		if carbonCSV != "" {
			if err := writeRecordsCSV(carbonCSV, combined.Records()); err != nil {
				return err
			}
			pterm.Printf("Wrote %s\n", carbonCSV)
		}
		return nil
	},
}

// renderGroupTable prints one row per model group with its variable
// coverage and dataset count.
func renderGroupTable(cat *catalog.Catalog) {
	type rowKey struct{ source, member, grid string }
	var order []rowKey
	vars := map[rowKey]map[string]bool{}
	counts := map[rowKey]int{}
	for _, r := range cat.Records() {
		k := rowKey{r.SourceID, r.MemberID, r.GridLabel}
		if vars[k] == nil {
			vars[k] = map[string]bool{}
			order = append(order, k)
		}
		vars[k][r.VariableID] = true
		counts[k]++
	}

	rows := pterm.TableData{{"SOURCE_ID", "MEMBER_ID", "GRID", "VARIABLES", "DATASETS"}}
	for _, k := range order {
		rows = append(rows, []string{
			k.source, k.member, k.grid,
			fmt.Sprintf("%d/%d", len(vars[k]), len(carbon.RequeryVariables)),
			fmt.Sprintf("%d", counts[k]),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		// Fall back to plain output when the table cannot render.
		for _, row := range rows {
			fmt.Println(strings.Join(row, "\t"))
		}
	}
}

func init() {
	carbonCmd.Flags().StringVar(&carbonExperiment, "experiment", "historical", "experiment_id facet for the survey")
	carbonCmd.Flags().StringVar(&carbonFrequency, "frequency", "mon", "frequency facet for the survey")
	carbonCmd.Flags().StringVar(&carbonCSV, "csv", "", "write the combined table to a CSV file")
	carbonCmd.Flags().BoolVar(&verboseCarbon, "verbose", false, "enable verbose diagnostics")
	rootCmd.AddCommand(carbonCmd)
}
