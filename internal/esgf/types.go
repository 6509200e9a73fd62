// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package esgf

import "strings"

// Record is one dataset availability entry returned by the search API,
// flattened from the Solr document form where most facets arrive as
// single-element arrays.
type Record struct {
	ID            string
	InstanceID    string
	SourceID      string
	MemberID      string
	GridLabel     string
	VariableID    string
	ExperimentID  string
	Frequency     string
	TableID       string
	InstitutionID string
	Version       string
	DataNode      string
	Size          int64
}

// FileRecord describes one downloadable file belonging to a dataset.
type FileRecord struct {
	Title        string
	DatasetID    string
	URL          string
	Size         int64
	Checksum     string
	ChecksumType string
}

// solrDoc mirrors the wire form of a search result document. The index
// publishes most CMIP6 facets as multivalued fields even when they hold a
// single value.
type solrDoc struct {
	ID            string   `json:"id"`
	InstanceID    string   `json:"instance_id"`
	SourceID      []string `json:"source_id"`
	MemberID      []string `json:"member_id"`
	GridLabel     []string `json:"grid_label"`
	VariableID    []string `json:"variable_id"`
	ExperimentID  []string `json:"experiment_id"`
	Frequency     []string `json:"frequency"`
	TableID       []string `json:"table_id"`
	InstitutionID []string `json:"institution_id"`
	Version       string   `json:"version"`
	DataNode      string   `json:"data_node"`
	Size          int64    `json:"size"`
	Title         string   `json:"title"`
	DatasetID     string   `json:"dataset_id"`
	URL           []string `json:"url"`
	Checksum      []string `json:"checksum"`
	ChecksumType  []string `json:"checksum_type"`
}

// first returns the first element of a multivalued facet, or "".
func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// record flattens a Solr document into a Record.
func (d solrDoc) record() Record {
	return Record{
		ID:            d.ID,
		InstanceID:    d.InstanceID,
		SourceID:      first(d.SourceID),
		MemberID:      first(d.MemberID),
		GridLabel:     first(d.GridLabel),
		VariableID:    first(d.VariableID),
		ExperimentID:  first(d.ExperimentID),
		Frequency:     first(d.Frequency),
		TableID:       first(d.TableID),
		InstitutionID: first(d.InstitutionID),
		Version:       d.Version,
		DataNode:      d.DataNode,
		Size:          d.Size,
	}
}

// fileRecord flattens a File-type Solr document. The url field entries have
// the form "<link>|<mime>|<service>"; only the HTTPServer link is kept since
// Globus transfers are out of scope.
func (d solrDoc) fileRecord() FileRecord {
	f := FileRecord{
		Title:        d.Title,
		DatasetID:    d.DatasetID,
		Size:         d.Size,
		Checksum:     first(d.Checksum),
		ChecksumType: first(d.ChecksumType),
	}
	for _, u := range d.URL {
		parts := strings.Split(u, "|")
		if len(parts) == 3 && parts[2] == "HTTPServer" {
			f.URL = parts[0]
			break
		}
	}
	return f
}
