// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"time"

	"esgcat/cli/internal/catalog"
	"esgcat/cli/internal/config"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	searchExperiment string
	searchFrequency  string
	searchSource     string
	searchMember     string
	searchGrid       string
	searchVariables  []string
	searchCSV        string
	searchLimit      int
)

// searchCmd runs one faceted dataset search and prints the result table.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search CMIP6 datasets by facet",
	Long: `The search command issues a single faceted dataset search against the
configured index node and prints the matching records. Facets left unset
are not constrained.

Example:
  esgcat search --experiment historical --variable gpp --variable lai --frequency mon`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, closeCache := newSearchClient(cfg)
		defer closeCache()

		q := esgf.Query{
			ExperimentID: searchExperiment,
			Frequency:    searchFrequency,
			SourceID:     searchSource,
			MemberID:     searchMember,
			GridLabel:    searchGrid,
			VariableID:   searchVariables,
		}

		cat := catalog.New(client)
		stopSpinner := startInlineSpinner(os.Stdout, "Searching...", spinnerFrames, 100*time.Millisecond)
		err = cat.Search(cmd.Context(), q)
		stopSpinner()
		if err != nil {
			return httperrors.FormatNetworkError(err, "searching datasets")
		}

		if cat.Len() == 0 {
			pterm.Println("No datasets matched.")
			return nil
		}

		rows := pterm.TableData{{"SOURCE_ID", "MEMBER_ID", "GRID", "TABLE", "VARIABLE", "VERSION", "DATA_NODE"}}
		shown := 0
		for _, r := range cat.Records() {
			if shown >= searchLimit {
				break
			}
			rows = append(rows, []string{r.SourceID, r.MemberID, r.GridLabel, r.TableID, r.VariableID, r.Version, r.DataNode})
			shown++
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
		if cat.Len() > shown {
			pterm.Printf("... %d more rows (raise --limit or use --csv)\n", cat.Len()-shown)
		}
		pterm.Printf("\n%d datasets\n", cat.Len())

		if searchCSV != "" {
			if err := writeRecordsCSV(searchCSV, cat.Records()); err != nil {
				return err
			}
			pterm.Printf("Wrote %s\n", searchCSV)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchExperiment, "experiment", "", "experiment_id facet")
	searchCmd.Flags().StringVar(&searchFrequency, "frequency", "", "frequency facet")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "source_id facet")
	searchCmd.Flags().StringVar(&searchMember, "member", "", "member_id facet")
	searchCmd.Flags().StringVar(&searchGrid, "grid", "", "grid_label facet")
	searchCmd.Flags().StringArrayVar(&searchVariables, "variable", nil, "variable_id facet (repeatable)")
	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "write results to a CSV file")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "maximum rows to print")
	rootCmd.AddCommand(searchCmd)
}
