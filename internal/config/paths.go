// Package config provides configuration loading and management.
package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for the CLI.
type Paths struct {
	// ConfigFile is the path to the project config file (<workspace>/anvil.yaml).
	ConfigFile string

	// CacheDir is the path to the shared component/registry cache directory.
	CacheDir string

	// HomeDir is the path to anvil's per-user directory (~/.anvil).
	HomeDir string
}

// DefaultPaths returns the default paths for a workspace rooted at dir,
// expanding the user cache directory under the home directory.
func DefaultPaths(workspaceDir string) (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	anvilHome := filepath.Join(homeDir, ".anvil")
	return &Paths{
		ConfigFile: filepath.Join(workspaceDir, "anvil.yaml"),
		CacheDir:   filepath.Join(anvilHome, "cache"),
		HomeDir:    anvilHome,
	}, nil
}

// ExpandTilde expands a leading ~ to the user's home directory. Paths
// without a leading ~, or with one embedded mid-string (~username,
// /path/~/file), are returned unchanged.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] != '/' {
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

// EnsureDir ensures a directory exists with the given permissions.
func EnsureDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
