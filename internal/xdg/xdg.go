// Package xdg provides helpers to resolve XDG Base Directory paths for esgcat.
// It determines appropriate locations for the configuration file and the local
// data cache on Unix-like systems, falling back to traditional dot-directories
// when the XDG environment variables are not set.
package xdg

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the XDG config directory for esgcat.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/esgcat when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "esgcat")
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

// CacheDir returns the XDG cache directory for esgcat. Downloaded datasets
// and the search-response cache live here unless the configuration points
// elsewhere. It falls back to ~/.cache/esgcat when XDG_CACHE_HOME is unset.
func CacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "esgcat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
