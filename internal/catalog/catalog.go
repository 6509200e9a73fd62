// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog holds an in-memory table of search results and the
// operations the carbon workflow applies to it: completeness filtering over
// model groups, ensemble deduplication, and group enumeration. The table is
// ephemeral; it is rebuilt from search responses on every invocation and
// never persisted.
package catalog

import (
	"context"

	"esgcat/cli/internal/drs"
	"esgcat/cli/internal/esgf"
)

// Searcher is the slice of the index client the catalog depends on.
// Tests substitute a fake; the CLI passes *esgf.Client.
type Searcher interface {
	Search(ctx context.Context, q esgf.Query) ([]esgf.Record, error)
}

// Group identifies one model group: a distinct combination of model,
// ensemble member, and grid.
type Group struct {
	SourceID  string
	MemberID  string
	GridLabel string
}

// ModelGroup is a Group together with the number of records it holds.
type ModelGroup struct {
	Group
	Count int
}

// Catalog is a table of dataset records tied to a searcher.
type Catalog struct {
	searcher Searcher
	records  []esgf.Record
}

// New creates an empty catalog backed by the given searcher.
func New(s Searcher) *Catalog {
	return &Catalog{searcher: s}
}

// Search replaces the catalog contents with the results of q.
func (c *Catalog) Search(ctx context.Context, q esgf.Query) error {
	records, err := c.searcher.Search(ctx, q)
	if err != nil {
		return err
	}
	c.records = records
	return nil
}

// Records returns the current table contents in order.
func (c *Catalog) Records() []esgf.Record { return c.records }

// Len returns the number of records in the table.
func (c *Catalog) Len() int { return len(c.records) }

// Append adds records to the end of the table.
func (c *Catalog) Append(records []esgf.Record) {
	c.records = append(c.records, records...)
}

// groupOf extracts the model-group key from a record.
func groupOf(r esgf.Record) Group {
	return Group{SourceID: r.SourceID, MemberID: r.MemberID, GridLabel: r.GridLabel}
}

// RemoveIncomplete keeps only records whose model group satisfies the
// predicate. The predicate receives every record of one group and must be
// pure; record order within the table is preserved. Returns the catalog for
// chaining.
func (c *Catalog) RemoveIncomplete(complete func(records []esgf.Record) bool) *Catalog {
	byGroup := make(map[Group][]esgf.Record)
	for _, r := range c.records {
		g := groupOf(r)
		byGroup[g] = append(byGroup[g], r)
	}
	keep := make(map[Group]bool, len(byGroup))
	for g, records := range byGroup {
		keep[g] = complete(records)
	}
	kept := c.records[:0]
	for _, r := range c.records {
		if keep[groupOf(r)] {
			kept = append(kept, r)
		}
	}
	c.records = kept
	return c
}

// RemoveEnsembles keeps a single ensemble member per (source_id, grid_label):
// the smallest member by DRS variant-label ordering. Returns the catalog for
// chaining.
func (c *Catalog) RemoveEnsembles() *Catalog {
	type modelGrid struct {
		SourceID  string
		GridLabel string
	}
	smallest := make(map[modelGrid]string)
	for _, r := range c.records {
		k := modelGrid{SourceID: r.SourceID, GridLabel: r.GridLabel}
		cur, ok := smallest[k]
		if !ok || drs.LessMemberID(r.MemberID, cur) {
			smallest[k] = r.MemberID
		}
	}
	kept := c.records[:0]
	for _, r := range c.records {
		if smallest[modelGrid{SourceID: r.SourceID, GridLabel: r.GridLabel}] == r.MemberID {
			kept = append(kept, r)
		}
	}
	c.records = kept
	return c
}

// ModelGroups returns the distinct model groups in the table, in the order
// each group is first encountered, with their record counts.
func (c *Catalog) ModelGroups() []ModelGroup {
	var groups []ModelGroup
	index := make(map[Group]int)
	for _, r := range c.records {
		g := groupOf(r)
		if i, ok := index[g]; ok {
			groups[i].Count++
			continue
		}
		index[g] = len(groups)
		groups = append(groups, ModelGroup{Group: g, Count: 1})
	}
	return groups
}

// Variables returns the distinct variable_id values present, in first-seen
// order.
func (c *Catalog) Variables() []string {
	seen := make(map[string]bool)
	var vars []string
	for _, r := range c.records {
		if !seen[r.VariableID] {
			seen[r.VariableID] = true
			vars = append(vars, r.VariableID)
		}
	}
	return vars
}

// DatasetIDs returns the id of every record, in table order.
func (c *Catalog) DatasetIDs() []string {
	ids := make([]string, len(c.records))
	for i, r := range c.records {
		ids[i] = r.ID
	}
	return ids
}
