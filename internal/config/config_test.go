package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.IndexNode != DefaultIndexNode {
		t.Errorf("IndexNode = %q, want %q", c.IndexNode, DefaultIndexNode)
	}
	if c.LocalCache == "" {
		t.Error("LocalCache is empty")
	}
	if c.PageSize != 1000 {
		t.Errorf("PageSize = %d, want 1000", c.PageSize)
	}
	if c.RequestTimeout.Std() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", c.RequestTimeout.Std())
	}
	if c.DownloadWorkers != 4 {
		t.Errorf("DownloadWorkers = %d, want 4", c.DownloadWorkers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	want := Config{
		IndexNode:       "https://esgf-data.dkrz.de/esg-search/search",
		LocalCache:      "/data/esgf",
		RequestTimeout:  Duration(45 * time.Second),
		PageSize:        500,
		CacheTTL:        Duration(time.Hour),
		DownloadWorkers: 8,
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadPartialFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfgDir := filepath.Join(dir, "esgcat")
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		t.Fatal(err)
	}
	payload := "index_node: https://esgf.nci.org.au/esg-search/search\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.IndexNode != "https://esgf.nci.org.au/esg-search/search" {
		t.Errorf("IndexNode = %q", c.IndexNode)
	}
	// Unset fields fall back to defaults.
	if c.PageSize != 1000 {
		t.Errorf("PageSize = %d, want default 1000", c.PageSize)
	}
	if c.CacheTTL.Std() != 12*time.Hour {
		t.Errorf("CacheTTL = %v, want default 12h", c.CacheTTL.Std())
	}
}

func TestLoadBadDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfgDir := filepath.Join(dir, "esgcat")
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("request_timeout: soon\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
