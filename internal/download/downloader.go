// Copyright (c) 2025 Esgcat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package download fetches dataset files over HTTP into the local cache,
// mirroring the published archive directory layout and verifying checksums
// where the index provides them.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"esgcat/cli/internal/drs"
	cerr "esgcat/cli/internal/errors"
	"esgcat/cli/internal/esgf"
	"esgcat/cli/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Result reports the outcome of one file transfer.
type Result struct {
	File    esgf.FileRecord
	Path    string
	Skipped bool // already present with matching size
	Err     error
}

// Downloader transfers files into a root directory with bounded
// concurrency. Unlike the search loop, downloads are allowed to run in
// parallel; the data nodes are independent of the index nodes.
type Downloader struct {
	root    string
	workers int
	client  *http.Client
}

// New creates a downloader writing under root with the given parallelism.
func New(root string, workers int, headerTimeout time.Duration) *Downloader {
	if workers <= 0 {
		workers = 1
	}
	// No overall client timeout: multi-gigabyte files legitimately take a
	// long time. The response-header timeout still catches dead nodes, and
	// cancellation flows through the request context.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &Downloader{
		root:    root,
		workers: workers,
		client:  &http.Client{Transport: transport},
	}
}

// DestPath computes the local path for a file, using the DRS directory
// layout when the dataset id parses and the URL path otherwise.
func (d *Downloader) DestPath(f esgf.FileRecord) string {
	if ds, err := drs.ParseDatasetID(f.DatasetID); err == nil {
		return filepath.Join(d.root, filepath.FromSlash(ds.Path()), f.Title)
	}
	trimmed := strings.TrimPrefix(f.URL, "http://")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return filepath.Join(d.root, filepath.FromSlash(trimmed))
}

// Fetch downloads all files, invoking onResult as each finishes. Transfer
// failures are reported per file rather than aborting the batch; Fetch
// returns an error only when the context is cancelled.
func (d *Downloader) Fetch(ctx context.Context, files []esgf.FileRecord, onResult func(Result)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	var mu sync.Mutex
	report := func(r Result) {
		if onResult == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onResult(r)
	}
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := d.fetchOne(ctx, f)
			report(r)
			return nil
		})
	}
	return g.Wait()
}

// fetchOne transfers a single file to its destination, skipping files that
// are already present with the expected size.
func (d *Downloader) fetchOne(ctx context.Context, f esgf.FileRecord) Result {
	dest := d.DestPath(f)
	if fi, err := os.Stat(dest); err == nil && fi.Size() == f.Size {
		logging.Debugf("download: %s already present", f.Title)
		return Result{File: f, Path: dest, Skipped: true}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Result{File: f, Path: dest, Err: cerr.Wrap(cerr.DownloadFailed, "create directory", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return Result{File: f, Path: dest, Err: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return Result{File: f, Path: dest, Err: cerr.Wrap(cerr.DownloadFailed, "request "+f.URL, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{File: f, Path: dest, Err: cerr.New(cerr.DownloadFailed,
			fmt.Sprintf("%s: data node returned status %d", f.Title, resp.StatusCode))}
	}

	// Write to a temp file first so interrupted transfers never leave a
	// plausible-looking .nc behind.
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+f.Title+".part-*")
	if err != nil {
		return Result{File: f, Path: dest, Err: cerr.Wrap(cerr.DownloadFailed, "create temp file", err)}
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body); err != nil {
		tmp.Close()
		return Result{File: f, Path: dest, Err: cerr.Wrap(cerr.DownloadFailed, "transfer "+f.Title, err)}
	}
	if err := tmp.Close(); err != nil {
		return Result{File: f, Path: dest, Err: err}
	}

	if strings.EqualFold(f.ChecksumType, "SHA256") && f.Checksum != "" {
		if sum := hex.EncodeToString(hasher.Sum(nil)); !strings.EqualFold(sum, f.Checksum) {
			return Result{File: f, Path: dest, Err: cerr.New(cerr.DownloadFailed,
				fmt.Sprintf("%s: checksum mismatch", f.Title))}
		}
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return Result{File: f, Path: dest, Err: cerr.Wrap(cerr.DownloadFailed, "finalize "+f.Title, err)}
	}
	return Result{File: f, Path: dest}
}

// TotalSize sums the advertised sizes of the given files.
func TotalSize(files []esgf.FileRecord) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}
