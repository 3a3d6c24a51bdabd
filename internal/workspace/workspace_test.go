package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, id string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ManifestFilename),
		[]byte("id: "+id+"\n"),
		0o644,
	))
}

func TestRescan_FindsNestedManifests(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "net", "wifi"), "net.wifi.driver")
	writeManifest(t, filepath.Join(root, "rtos"), "rtos.core")

	db := NewDatabase(root)
	require.NoError(t, db.Rescan())

	assert.Equal(t, 2, db.Len())
	path, ok := db.Lookup("net.wifi.driver")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "net", "wifi", ManifestFilename), path)
}

func TestRescan_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, ".git"), "ignored.component")
	writeManifest(t, filepath.Join(root, "a"), "a.component")

	db := NewDatabase(root)
	require.NoError(t, db.Rescan())

	assert.Equal(t, 1, db.Len())
	_, ok := db.Lookup("ignored.component")
	assert.False(t, ok)
}

func TestRescan_LaterRootOverwritesEarlier(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeManifest(t, root1, "shared.lib")
	writeManifest(t, root2, "shared.lib")

	db := NewDatabase(root1, root2)
	require.NoError(t, db.Rescan())

	path, ok := db.Lookup("shared.lib")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root2, ManifestFilename), path)
}

func TestRescan_MissingRootIsNotAnError(t *testing.T) {
	db := NewDatabase(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, db.Rescan())
	assert.Equal(t, 0, db.Len())
}

func TestLoad_ReturnsManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a.component")

	db := NewDatabase(root)
	require.NoError(t, db.Rescan())

	m, err := db.Load("a.component")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "a.component", m.ID)
}

func TestIDs_Sorted(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "z"), "z.component")
	writeManifest(t, filepath.Join(root, "a"), "a.component")

	db := NewDatabase(root)
	require.NoError(t, db.Rescan())

	assert.Equal(t, []string{"a.component", "z.component"}, db.IDs())
}
