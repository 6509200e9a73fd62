// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"esgcat/cli/internal/cache"
	"esgcat/cli/internal/config"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/logging"

	"github.com/pterm/pterm"
)

// newSearchClient builds the index client from configuration, attaching the
// response cache when it opens. A broken cache is reported and skipped
// rather than failing the run; searches still work without it.
func newSearchClient(cfg config.Config) (*esgf.Client, func()) {
	store, err := cache.Open(filepath.Join(cfg.LocalCache, "cache"), cfg.CacheTTL.Std())
	if err != nil {
		pterm.Warning.Println(logging.PresentError("response cache unavailable", err))
		return esgf.NewClient(cfg.IndexNode, cfg.PageSize, cfg.RequestTimeout.Std(), nil), func() {}
	}
	client := esgf.NewClient(cfg.IndexNode, cfg.PageSize, cfg.RequestTimeout.Std(), store)
	return client, func() {
		if err := store.Close(); err != nil {
			logging.Debugf("close response cache: %v", err)
		}
	}
}

// writeRecordsCSV exports records to path in table order.
func writeRecordsCSV(path string, records []esgf.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "source_id", "member_id", "grid_label", "variable_id",
		"experiment_id", "frequency", "table_id", "institution_id", "version", "data_node", "size"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.ID, r.SourceID, r.MemberID, r.GridLabel, r.VariableID,
			r.ExperimentID, r.Frequency, r.TableID, r.InstitutionID, r.Version, r.DataNode,
			strconv.FormatInt(r.Size, 10)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
