// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package drs

import (
	"testing"
)

func TestParseMemberID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		want        Member
		expectError bool
	}{
		{
			name: "plain variant label",
			id:   "r1i1p1f1",
			want: Member{Realization: 1, Initialization: 1, Physics: 1, Forcing: 1},
		},
		{
			name: "multi digit indices",
			id:   "r10i2p11f3",
			want: Member{Realization: 10, Initialization: 2, Physics: 11, Forcing: 3},
		},
		{
			name: "sub-experiment prefix",
			id:   "s1920-r4i1p1f2",
			want: Member{Realization: 4, Initialization: 1, Physics: 1, Forcing: 2},
		},
		{
			name:        "missing forcing index",
			id:          "r1i1p1",
			expectError: true,
		},
		{
			name:        "empty",
			id:          "",
			expectError: true,
		},
		{
			name:        "not a variant label",
			id:          "gn",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMemberID(tt.id)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMemberID(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLessMemberID(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "numeric not lexical", a: "r2i1p1f1", b: "r10i1p1f1", want: true},
		{name: "reverse of numeric", a: "r10i1p1f1", b: "r2i1p1f1", want: false},
		{name: "equal labels", a: "r1i1p1f1", b: "r1i1p1f1", want: false},
		{name: "forcing breaks tie", a: "r1i1p1f1", b: "r1i1p1f2", want: true},
		{name: "unparseable falls back to string order", a: "alpha", b: "beta", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LessMemberID(tt.a, tt.b); got != tt.want {
				t.Errorf("LessMemberID(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseDatasetID(t *testing.T) {
	id := "CMIP6.CMIP.NCAR.CESM2.historical.r1i1p1f1.Amon.tas.gn.v20190308|esgf-node.ornl.gov"

	ds, err := ParseDatasetID(id)
	if err != nil {
		t.Fatalf("ParseDatasetID() error = %v", err)
	}
	if ds.SourceID != "CESM2" {
		t.Errorf("SourceID = %q, want CESM2", ds.SourceID)
	}
	if ds.ExperimentID != "historical" {
		t.Errorf("ExperimentID = %q, want historical", ds.ExperimentID)
	}
	if ds.MemberID != "r1i1p1f1" {
		t.Errorf("MemberID = %q, want r1i1p1f1", ds.MemberID)
	}
	if ds.VariableID != "tas" {
		t.Errorf("VariableID = %q, want tas", ds.VariableID)
	}
	if ds.GridLabel != "gn" {
		t.Errorf("GridLabel = %q, want gn", ds.GridLabel)
	}
	if ds.DataNode != "esgf-node.ornl.gov" {
		t.Errorf("DataNode = %q, want esgf-node.ornl.gov", ds.DataNode)
	}
	if got, want := ds.Path(), "CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/Amon/tas/gn/v20190308"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestParseDatasetIDErrors(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "too few fields", id: "CMIP6.CMIP.NCAR.CESM2"},
		{name: "bad member field", id: "CMIP6.CMIP.NCAR.CESM2.historical.member.Amon.tas.gn.v20190308"},
		{name: "empty", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDatasetID(tt.id); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}
