package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRegistryAdd_RejectsInvalidURL(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	cmd := NewRegistryCmd()
	cmd.SetArgs([]string{"add", "not-a-url"})

	err = cmd.Execute()
	assert.Error(t, err)
}

func TestRunRegistryAdd_WritesEntryFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	cmd := NewRegistryCmd()
	cmd.SetArgs([]string{"add", "https://registry.example.com/index"})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, ".yakka", "registries", "registry.example.com.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://registry.example.com/index")
}
