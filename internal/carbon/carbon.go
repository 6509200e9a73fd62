// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package carbon decides which CMIP6 model groups carry a usable land
// carbon cycle and rebuilds the result table with one narrow search per
// surviving group. Models publish soil carbon and land-atmosphere CO2 flux
// under alternate variable names, so the completeness test accepts either
// spelling of each.
package carbon

import (
	"context"

	"esgcat/cli/internal/catalog"
	"esgcat/cli/internal/esgf"
)

// ProbeVariables is the variable set used for the broad availability
// search. A model group that covers the carbon cycle exposes a sufficient
// subset of these.
var ProbeVariables = []string{
	"cSoilAbove1m",
	"cSoil",
	"cVeg",
	"gpp",
	"lai",
	"nbp",
	"netAtmosLandCO2Flux",
}

// RequeryVariables is the larger monthly-land variable list fetched per
// model group once the group is known to be complete. Kept per-group so no
// single request exceeds the index node's query-size ceiling.
var RequeryVariables = []string{
	"burntFractionAll",
	"cSoilAbove1m",
	"cSoil",
	"cVeg",
	"evspsbl",
	"fBNF",
	"gpp",
	"hfls",
	"hfss",
	"lai",
	"mrro",
	"mrsos",
	"nbp",
	"netAtmosLandCO2Flux",
	"pr",
	"ra",
	"rh",
	"hurs",
	"rlds",
	"rlus",
	"rsds",
	"rsus",
	"snw",
	"tas",
	"tasmax",
	"tasmin",
	"tsl",
}

// HasCarbonCycle reports whether a group's variable set constitutes a
// complete carbon cycle: at least one of {cSoil, cSoilAbove1m}, at least
// one of {nbp, netAtmosLandCO2Flux}, and all of {cVeg, gpp, lai}.
func HasCarbonCycle(variables []string) bool {
	present := make(map[string]bool, len(variables))
	for _, v := range variables {
		present[v] = true
	}
	if !present["cSoil"] && !present["cSoilAbove1m"] {
		return false
	}
	if !present["nbp"] && !present["netAtmosLandCO2Flux"] {
		return false
	}
	return present["cVeg"] && present["gpp"] && present["lai"]
}

// CompleteGroup adapts HasCarbonCycle to the catalog's group predicate.
func CompleteGroup(records []esgf.Record) bool {
	vars := make([]string, len(records))
	for i, r := range records {
		vars[i] = r.VariableID
	}
	return HasCarbonCycle(vars)
}

// CombineGroups issues one narrow search per model group and concatenates
// the results into a fresh catalog, preserving group order. Each sub-search
// restricts base to the group's exact source_id/member_id/grid_label plus
// RequeryVariables. Searches run sequentially; the first failure aborts the
// loop and propagates, with no retry and no partial result.
//
// onGroup, when non-nil, is called before each sub-search for progress
// reporting.
func CombineGroups(ctx context.Context, s catalog.Searcher, base esgf.Query, groups []catalog.ModelGroup, onGroup func(catalog.ModelGroup)) (*catalog.Catalog, error) {
	combined := catalog.New(s)
	for _, g := range groups {
		if onGroup != nil {
			onGroup(g)
		}
		q := base
		q.SourceID = g.SourceID
		q.MemberID = g.MemberID
		q.GridLabel = g.GridLabel
		q.VariableID = RequeryVariables
		records, err := s.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		combined.Append(records)
	}
	return combined, nil
}
