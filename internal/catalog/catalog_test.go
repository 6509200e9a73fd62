// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"context"
	"errors"
	"testing"

	"esgcat/cli/internal/esgf"
)

// fakeSearcher returns canned records and counts its calls.
type fakeSearcher struct {
	records []esgf.Record
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, q esgf.Query) ([]esgf.Record, error) {
	f.calls++
	return f.records, f.err
}

func rec(source, member, grid, variable string) esgf.Record {
	return esgf.Record{SourceID: source, MemberID: member, GridLabel: grid, VariableID: variable}
}

func TestSearchReplacesRecords(t *testing.T) {
	s := &fakeSearcher{records: []esgf.Record{rec("CESM2", "r1i1p1f1", "gn", "tas")}}
	c := New(s)
	c.Append([]esgf.Record{rec("OLD", "r1i1p1f1", "gn", "pr")})

	if err := c.Search(context.Background(), esgf.Query{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if c.Len() != 1 || c.Records()[0].SourceID != "CESM2" {
		t.Errorf("Search did not replace table contents: %+v", c.Records())
	}
}

func TestSearchPropagatesError(t *testing.T) {
	s := &fakeSearcher{err: errors.New("boom")}
	c := New(s)
	if err := c.Search(context.Background(), esgf.Query{}); err == nil {
		t.Error("expected error but got none")
	}
}

func TestRemoveIncomplete(t *testing.T) {
	c := New(nil)
	c.Append([]esgf.Record{
		rec("CESM2", "r1i1p1f1", "gn", "gpp"),
		rec("CESM2", "r1i1p1f1", "gn", "lai"),
		rec("UKESM1-0-LL", "r1i1p1f2", "gn", "gpp"),
	})

	// Keep groups with at least two variables.
	c.RemoveIncomplete(func(records []esgf.Record) bool { return len(records) >= 2 })

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for _, r := range c.Records() {
		if r.SourceID != "CESM2" {
			t.Errorf("unexpected survivor %+v", r)
		}
	}
}

func TestRemoveIncompletePreservesOrder(t *testing.T) {
	c := New(nil)
	c.Append([]esgf.Record{
		rec("B-MODEL", "r1i1p1f1", "gn", "gpp"),
		rec("A-MODEL", "r1i1p1f1", "gn", "gpp"),
		rec("B-MODEL", "r1i1p1f1", "gn", "lai"),
	})
	c.RemoveIncomplete(func([]esgf.Record) bool { return true })

	got := c.Records()
	if got[0].SourceID != "B-MODEL" || got[1].SourceID != "A-MODEL" || got[2].SourceID != "B-MODEL" {
		t.Errorf("row order changed: %+v", got)
	}
}

func TestRemoveEnsembles(t *testing.T) {
	c := New(nil)
	c.Append([]esgf.Record{
		rec("CESM2", "r10i1p1f1", "gn", "gpp"),
		rec("CESM2", "r2i1p1f1", "gn", "gpp"),
		rec("CESM2", "r2i1p1f1", "gn", "lai"),
		rec("CESM2", "r1i1p1f1", "gr", "gpp"), // different grid keeps its own member
	})
	c.RemoveEnsembles()

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	for _, r := range c.Records() {
		if r.GridLabel == "gn" && r.MemberID != "r2i1p1f1" {
			t.Errorf("kept member %q for gn, want r2i1p1f1", r.MemberID)
		}
	}
}

func TestRemoveEnsemblesNumericOrdering(t *testing.T) {
	// r2 must win over r10 even though "r10" < "r2" lexically.
	c := New(nil)
	c.Append([]esgf.Record{
		rec("MIROC6", "r10i1p1f1", "gn", "gpp"),
		rec("MIROC6", "r2i1p1f1", "gn", "gpp"),
	})
	c.RemoveEnsembles()

	if c.Len() != 1 || c.Records()[0].MemberID != "r2i1p1f1" {
		t.Errorf("Records() = %+v, want single r2i1p1f1 row", c.Records())
	}
}

func TestModelGroups(t *testing.T) {
	c := New(nil)
	c.Append([]esgf.Record{
		rec("CESM2", "r1i1p1f1", "gn", "gpp"),
		rec("UKESM1-0-LL", "r1i1p1f2", "gn", "gpp"),
		rec("CESM2", "r1i1p1f1", "gn", "lai"),
		rec("CESM2", "r1i1p1f1", "gn", "cVeg"),
	})

	groups := c.ModelGroups()
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	// First-encounter order.
	if groups[0].SourceID != "CESM2" || groups[1].SourceID != "UKESM1-0-LL" {
		t.Errorf("group order = %+v", groups)
	}
	if groups[0].Count != 3 || groups[1].Count != 1 {
		t.Errorf("counts = %d, %d, want 3, 1", groups[0].Count, groups[1].Count)
	}
}

func TestVariables(t *testing.T) {
	c := New(nil)
	c.Append([]esgf.Record{
		rec("CESM2", "r1i1p1f1", "gn", "gpp"),
		rec("CESM2", "r1i1p1f1", "gn", "lai"),
		rec("CESM2", "r1i1p1f1", "gn", "gpp"),
	})
	vars := c.Variables()
	if len(vars) != 2 || vars[0] != "gpp" || vars[1] != "lai" {
		t.Errorf("Variables() = %v", vars)
	}
}
