// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package esgf

import (
	"net/url"
	"strings"
)

// maxIDsPerRequest bounds how many dataset_id values are packed into one
// request. The REST endpoint rejects over-long query strings, so file
// lookups for large dataset lists must be chunked.
const maxIDsPerRequest = 40

// Query describes one search against the index node. Empty fields are
// omitted from the request. Multivalued facets are joined with commas,
// which the endpoint interprets as OR.
type Query struct {
	// Type selects the record kind, "Dataset" or "File".
	Type         string
	ExperimentID string
	SourceID     string
	MemberID     string
	GridLabel    string
	Frequency    string
	VariableID   []string
	DatasetIDs   []string
}

// Values encodes the query as request parameters. Pagination parameters
// are added by the client, not here.
func (q Query) Values() url.Values {
	v := url.Values{}
	typ := q.Type
	if typ == "" {
		typ = "Dataset"
	}
	v.Set("type", typ)
	v.Set("format", "application/solr+json")
	v.Set("project", "CMIP6")
	v.Set("latest", "true")
	v.Set("replica", "false")
	if q.ExperimentID != "" {
		v.Set("experiment_id", q.ExperimentID)
	}
	if q.SourceID != "" {
		v.Set("source_id", q.SourceID)
	}
	if q.MemberID != "" {
		v.Set("member_id", q.MemberID)
	}
	if q.GridLabel != "" {
		v.Set("grid_label", q.GridLabel)
	}
	if q.Frequency != "" {
		v.Set("frequency", q.Frequency)
	}
	if len(q.VariableID) > 0 {
		v.Set("variable_id", strings.Join(q.VariableID, ","))
	}
	if len(q.DatasetIDs) > 0 {
		v.Set("dataset_id", strings.Join(q.DatasetIDs, ","))
	}
	return v
}

// Key returns the canonical form of the query used as a response-cache key.
// url.Values.Encode sorts parameter names, so equivalent queries collide.
func (q Query) Key() string {
	return q.Values().Encode()
}

// chunkIDs splits ids into slices of at most maxIDsPerRequest entries.
func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > maxIDsPerRequest {
		chunks = append(chunks, ids[:maxIDsPerRequest])
		ids = ids[maxIDsPerRequest:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
