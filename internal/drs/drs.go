// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package drs parses CMIP6 Data Reference Syntax identifiers: full dataset
// ids like
//
//	CMIP6.CMIP.NCAR.CESM2.historical.r1i1p1f1.Amon.tas.gn.v20190308|esgf-node.ornl.gov
//
// and variant labels (member ids) like r1i1p1f1. Variant labels order
// numerically by their realization/initialization/physics/forcing indices,
// not lexically: r2i1p1f1 sorts before r10i1p1f1.
package drs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dataset holds the components of a CMIP6 dataset identifier.
type Dataset struct {
	MIPEra       string
	ActivityID   string
	Institution  string
	SourceID     string
	ExperimentID string
	MemberID     string
	TableID      string
	VariableID   string
	GridLabel    string
	Version      string
	DataNode     string
}

// Member holds the numeric indices of a variant label.
type Member struct {
	Realization    int
	Initialization int
	Physics        int
	Forcing        int
}

var memberRe = regexp.MustCompile(`^r(\d+)i(\d+)p(\d+)f(\d+)$`)

// ParseMemberID parses a variant label. A sub-experiment prefix such as
// "s1920-r1i1p1f1" is allowed; only the ripf part is decoded.
func ParseMemberID(id string) (Member, error) {
	label := id
	if i := strings.LastIndex(label, "-"); i >= 0 {
		label = label[i+1:]
	}
	m := memberRe.FindStringSubmatch(label)
	if m == nil {
		return Member{}, fmt.Errorf("malformed member_id %q", id)
	}
	// The regexp guarantees digits, so Atoi cannot fail.
	r, _ := strconv.Atoi(m[1])
	i, _ := strconv.Atoi(m[2])
	p, _ := strconv.Atoi(m[3])
	f, _ := strconv.Atoi(m[4])
	return Member{Realization: r, Initialization: i, Physics: p, Forcing: f}, nil
}

// Less orders members by realization, then initialization, physics, forcing.
func (m Member) Less(o Member) bool {
	if m.Realization != o.Realization {
		return m.Realization < o.Realization
	}
	if m.Initialization != o.Initialization {
		return m.Initialization < o.Initialization
	}
	if m.Physics != o.Physics {
		return m.Physics < o.Physics
	}
	return m.Forcing < o.Forcing
}

// LessMemberID compares two variant labels numerically. Labels that do not
// parse fall back to string comparison so ordering stays total.
func LessMemberID(a, b string) bool {
	ma, errA := ParseMemberID(a)
	mb, errB := ParseMemberID(b)
	if errA != nil || errB != nil {
		return a < b
	}
	if ma == mb {
		return a < b
	}
	return ma.Less(mb)
}

// ParseDatasetID parses a full dataset identifier, with or without the
// "|data-node" suffix.
func ParseDatasetID(id string) (Dataset, error) {
	var ds Dataset
	if i := strings.Index(id, "|"); i >= 0 {
		ds.DataNode = id[i+1:]
		id = id[:i]
	}
	parts := strings.Split(id, ".")
	if len(parts) != 10 {
		return Dataset{}, fmt.Errorf("malformed dataset id %q: want 10 dot-separated fields, got %d", id, len(parts))
	}
	ds.MIPEra = parts[0]
	ds.ActivityID = parts[1]
	ds.Institution = parts[2]
	ds.SourceID = parts[3]
	ds.ExperimentID = parts[4]
	ds.MemberID = parts[5]
	ds.TableID = parts[6]
	ds.VariableID = parts[7]
	ds.GridLabel = parts[8]
	ds.Version = parts[9]
	if _, err := ParseMemberID(ds.MemberID); err != nil {
		return Dataset{}, fmt.Errorf("dataset id %q: %w", id, err)
	}
	return ds, nil
}

// Path returns the directory layout for a dataset, mirroring the published
// CMIP6 archive structure.
func (d Dataset) Path() string {
	return strings.Join([]string{
		d.MIPEra, d.ActivityID, d.Institution, d.SourceID, d.ExperimentID,
		d.MemberID, d.TableID, d.VariableID, d.GridLabel, d.Version,
	}, "/")
}
