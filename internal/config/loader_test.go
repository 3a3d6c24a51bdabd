// Package config provides configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	os.Unsetenv("ANVIL_REGISTRY")
	os.Unsetenv("ANVIL_JOBS")

	cfg, err := Load(LoaderOptions{WorkspaceDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.OutputDir)
	assert.Empty(t, cfg.Registry)
	assert.GreaterOrEqual(t, cfg.Jobs, 1)
}

func TestLoad_ReadsProjectConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "registry: file-registry.example.com\njobs: 7\noutput_dir: build\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{WorkspaceDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "file-registry.example.com", cfg.Registry)
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, "build", cfg.OutputDir)
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "registry: file-registry.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil.yaml"), []byte(content), 0o644))

	os.Setenv("ANVIL_REGISTRY", "env-registry.example.com")
	defer os.Unsetenv("ANVIL_REGISTRY")

	cfg, err := Load(LoaderOptions{WorkspaceDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "env-registry.example.com", cfg.Registry)
}

func TestLoad_FlagOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	content := "registry: file-registry.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil.yaml"), []byte(content), 0o644))

	os.Setenv("ANVIL_REGISTRY", "env-registry.example.com")
	defer os.Unsetenv("ANVIL_REGISTRY")

	cfg, err := Load(LoaderOptions{WorkspaceDir: dir, RegistryFlag: "flag-registry.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "flag-registry.example.com", cfg.Registry)
}

func TestLoad_InvalidJobsFailsValidation(t *testing.T) {
	dir := t.TempDir()
	content := "jobs: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil.yaml"), []byte(content), 0o644))

	_, err := Load(LoaderOptions{WorkspaceDir: dir})
	assert.Error(t, err)
}
