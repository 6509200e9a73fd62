// Package config loads and stores CLI configuration in the XDG config dir.
// The configuration is a YAML file; every consumer receives an explicit
// Config value at construction time rather than reading global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"esgcat/cli/internal/xdg"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values can be written as "30s" or "1h"
// in the YAML file.
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "45s" or "2h30m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the CLI settings.
type Config struct {
	// IndexNode is the base URL of the ESGF search endpoint to query.
	IndexNode string `yaml:"index_node"`
	// LocalCache is the directory downloaded files and the response
	// cache are stored in. Hidden directories break some transfer
	// tooling, so this should be a plain path.
	LocalCache string `yaml:"local_cache"`
	// RequestTimeout bounds each individual search request.
	RequestTimeout Duration `yaml:"request_timeout"`
	// PageSize is the per-request result limit used when paginating.
	PageSize int `yaml:"page_size"`
	// CacheTTL is how long cached search responses stay valid.
	CacheTTL Duration `yaml:"cache_ttl"`
	// DownloadWorkers is the number of concurrent file downloads.
	DownloadWorkers int `yaml:"download_workers"`
}

// DefaultIndexNode is used when no index node is configured.
const DefaultIndexNode = "https://esgf-node.llnl.gov/esg-search/search"

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// defaults returns the configuration used when no file exists.
func defaults() (Config, error) {
	cacheRoot, err := xdg.CacheDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		IndexNode:       DefaultIndexNode,
		LocalCache:      filepath.Join(cacheRoot, "esgf-data"),
		RequestTimeout:  Duration(30 * time.Second),
		PageSize:        1000,
		CacheTTL:        Duration(12 * time.Hour),
		DownloadWorkers: 4,
	}, nil
}

// Load reads configuration; a missing file returns defaults. Fields the
// file leaves unset are filled from defaults so partial configs work.
func Load() (Config, error) {
	def, err := defaults()
	if err != nil {
		return Config{}, err
	}
	p, err := path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return Config{}, err
	}
	c := def
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", p, err)
	}
	if c.IndexNode == "" {
		c.IndexNode = def.IndexNode
	}
	if c.LocalCache == "" {
		c.LocalCache = def.LocalCache
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.DownloadWorkers <= 0 {
		c.DownloadWorkers = def.DownloadWorkers
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
