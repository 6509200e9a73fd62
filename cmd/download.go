// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"esgcat/cli/internal/cache"
	"esgcat/cli/internal/catalog"
	"esgcat/cli/internal/config"
	"esgcat/cli/internal/download"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/httperrors"
	"esgcat/cli/internal/logging"
	"esgcat/cli/internal/terminal"

	"atomicgo.dev/cursor"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	dlExperiment string
	dlFrequency  string
	dlSource     string
	dlMember     string
	dlGrid       string
	dlVariables  []string
	dlYes        bool
	verboseDl    bool
)

// downloadCmd resolves the files behind a faceted dataset search and
// transfers them into the local cache over HTTP. Globus transfers are not
// supported; only HTTPServer access links are used.
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download matched dataset files into the local cache",
	Long: `The download command searches datasets like 'esgcat search', resolves the
file records behind each match, and downloads their HTTP access links into
the local cache directory, preserving the CMIP6 archive layout. Files
already present with the right size are skipped; SHA256 checksums are
verified when the index provides them.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseDl {
			os.Setenv("ESGCAT_VERBOSE", "1")
		}
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, closeCache := newSearchClient(cfg)
		defer closeCache()

		q := esgf.Query{
			ExperimentID: dlExperiment,
			Frequency:    dlFrequency,
			SourceID:     dlSource,
			MemberID:     dlMember,
			GridLabel:    dlGrid,
			VariableID:   dlVariables,
		}
		cat := catalog.New(client)
		stopSpinner := startInlineSpinner(os.Stdout, "Resolving datasets...", spinnerFrames, 100*time.Millisecond)
		err = cat.Search(ctx, q)
		stopSpinner()
		if err != nil {
			return httperrors.FormatNetworkError(err, "resolving datasets")
		}
		if cat.Len() == 0 {
			pterm.Println("No datasets matched; nothing to download.")
			return nil
		}

		stopSpinner = startInlineSpinner(os.Stdout, "Resolving file records...", spinnerFrames, 100*time.Millisecond)
		files, err := client.Files(ctx, cat.DatasetIDs())
		stopSpinner()
		if err != nil {
			return httperrors.FormatNetworkError(err, "resolving file records")
		}
		if len(files) == 0 {
			pterm.Println("Matched datasets expose no HTTP access links.")
			return nil
		}

		total := download.TotalSize(files)
		pterm.Printf("→ %d files, %s, into %s\n", len(files), cache.HumanSize(total), cfg.LocalCache)
		if !dlYes {
			prompt := fmt.Sprintf("Download %d files (%s)? [y/N]: ", len(files), cache.HumanSize(total))
			fmt.Print(prompt)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			terminal.ClearPreviousLines(len(prompt) + len(answer))
			if answer != "y" && answer != "yes" {
				pterm.Println("Aborted.")
				return nil
			}
		}

		cursor.Hide()
		defer cursor.Show()
		bar, err := pterm.DefaultProgressbar.WithTotal(len(files)).WithTitle("Downloading").Start()
		if err != nil {
			return err
		}

		var failed, skipped int
		err = download.New(cfg.LocalCache, cfg.DownloadWorkers, cfg.RequestTimeout.Std()).
			Fetch(ctx, files, func(r download.Result) {
				switch {
				case r.Err != nil:
					failed++
					pterm.Error.Println(logging.PresentError(r.File.Title, r.Err))
				case r.Skipped:
					skipped++
				}
				bar.Increment()
			})
		if _, stopErr := bar.Stop(); stopErr != nil {
			logging.Debugf("stop progressbar: %v", stopErr)
		}
		if err != nil {
			return err
		}

		pterm.Printf("\nDone: %d downloaded, %d already present, %d failed\n",
			len(files)-skipped-failed, skipped, failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d transfers failed", failed, len(files))
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&dlExperiment, "experiment", "", "experiment_id facet")
	downloadCmd.Flags().StringVar(&dlFrequency, "frequency", "", "frequency facet")
	downloadCmd.Flags().StringVar(&dlSource, "source", "", "source_id facet")
	downloadCmd.Flags().StringVar(&dlMember, "member", "", "member_id facet")
	downloadCmd.Flags().StringVar(&dlGrid, "grid", "", "grid_label facet")
	downloadCmd.Flags().StringArrayVar(&dlVariables, "variable", nil, "variable_id facet (repeatable)")
	downloadCmd.Flags().BoolVarP(&dlYes, "yes", "y", false, "skip the confirmation prompt")
	downloadCmd.Flags().BoolVar(&verboseDl, "verbose", false, "enable verbose diagnostics")
	rootCmd.AddCommand(downloadCmd)
}
