// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package inspect reads metadata from downloaded NetCDF files so the cache
// can be checked without re-downloading anything. CMIP6 file names start
// with the variable they carry (tas_Amon_CESM2_...), which gives a cheap
// consistency check: the named variable must exist inside the file.
package inspect

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

// Summary describes one scanned file.
type Summary struct {
	Path string
	// Variable is the variable_id implied by the file name.
	Variable string
	// Variables lists the variables actually present in the file.
	Variables []string
	// OK is true when the implied variable exists in the file.
	OK bool
	// Err holds the open/read failure, if any.
	Err error
}

// variableFromName extracts the leading variable_id token of a CMIP6 file
// name, or "" when the name has no underscore-separated tokens.
func variableFromName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), ".nc")
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return ""
}

// File opens a single NetCDF file and summarizes it.
func File(path string) Summary {
	s := Summary{Path: path, Variable: variableFromName(path)}
	nc, err := netcdf.Open(path)
	if err != nil {
		s.Err = err
		return s
	}
	defer nc.Close()

	s.Variables = nc.ListVariables()
	for _, v := range s.Variables {
		if v == s.Variable {
			s.OK = true
			break
		}
	}
	return s
}

// Scan walks root for .nc files and summarizes each. Files that cannot be
// opened are reported with Err set rather than aborting the walk.
func Scan(root string) ([]Summary, error) {
	var summaries []Summary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".nc") {
			return nil
		}
		summaries = append(summaries, File(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
