// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"esgcat/cli/internal/esgf"
)

const datasetID = "CMIP6.CMIP.NCAR.CESM2.historical.r1i1p1f1.Amon.tas.gn.v20190308|aims3.llnl.gov"

func testServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fileRecord(srv *httptest.Server, title, body string) esgf.FileRecord {
	sum := sha256.Sum256([]byte(body))
	return esgf.FileRecord{
		Title:        title,
		DatasetID:    datasetID,
		URL:          srv.URL + "/" + title,
		Size:         int64(len(body)),
		Checksum:     hex.EncodeToString(sum[:]),
		ChecksumType: "SHA256",
	}
}

func TestFetchWritesDRSLayout(t *testing.T) {
	body := "netcdf bytes"
	srv := testServer(t, body)
	root := t.TempDir()

	d := New(root, 2, time.Second)
	var results []Result
	err := d.Fetch(context.Background(), []esgf.FileRecord{fileRecord(srv, "tas_Amon_CESM2_historical_r1i1p1f1_gn_185001-201412.nc", body)}, func(r Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}

	want := filepath.Join(root, "CMIP6", "CMIP", "NCAR", "CESM2", "historical",
		"r1i1p1f1", "Amon", "tas", "gn", "v20190308",
		"tas_Amon_CESM2_historical_r1i1p1f1_gn_185001-201412.nc")
	got, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected file at %s: %v", want, err)
	}
	if string(got) != body {
		t.Errorf("file contents = %q, want %q", got, body)
	}
}

func TestFetchSkipsExisting(t *testing.T) {
	body := "already here"
	srv := testServer(t, body)
	root := t.TempDir()
	d := New(root, 1, time.Second)

	f := fileRecord(srv, "tas.nc", body)
	dest := d.DestPath(f)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	var r Result
	if err := d.Fetch(context.Background(), []esgf.FileRecord{f}, func(res Result) { r = res }); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !r.Skipped {
		t.Error("expected existing file to be skipped")
	}
}

func TestFetchChecksumMismatch(t *testing.T) {
	srv := testServer(t, "corrupted body")
	d := New(t.TempDir(), 1, time.Second)

	f := fileRecord(srv, "tas.nc", "expected body") // checksum of different content
	var r Result
	if err := d.Fetch(context.Background(), []esgf.FileRecord{f}, func(res Result) { r = res }); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if r.Err == nil {
		t.Fatal("expected checksum error")
	}
	if _, err := os.Stat(d.DestPath(f)); !os.IsNotExist(err) {
		t.Error("corrupt file was finalized")
	}
}

func TestFetchReportsServerFailurePerFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	d := New(t.TempDir(), 1, time.Second)

	f := esgf.FileRecord{Title: "missing.nc", DatasetID: datasetID, URL: srv.URL + "/missing.nc", Size: 4}
	var r Result
	if err := d.Fetch(context.Background(), []esgf.FileRecord{f}, func(res Result) { r = res }); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if r.Err == nil {
		t.Error("expected per-file error for 404")
	}
}

func TestDestPathFallsBackToURL(t *testing.T) {
	d := New("/cache", 1, time.Second)
	f := esgf.FileRecord{
		Title:     "odd.nc",
		DatasetID: "not-a-drs-id",
		URL:       "https://data.node/thredds/fileServer/css03_data/odd.nc",
	}
	got := d.DestPath(f)
	want := filepath.Join("/cache", "thredds", "fileServer", "css03_data", "odd.nc")
	if got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
}

func TestTotalSize(t *testing.T) {
	files := []esgf.FileRecord{{Size: 10}, {Size: 32}}
	if got := TotalSize(files); got != 42 {
		t.Errorf("TotalSize() = %d, want 42", got)
	}
}
