package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/manifest"
)

func TestClose_RejectsDataDependencyAsInitialTarget(t *testing.T) {
	db := &Database{}
	_, err := Close(db, nil, []string{"!/a/version"})
	assert.Error(t, err)
}

func TestClose_LiteralMatchWithScalarDependency(t *testing.T) {
	m, err := manifest.Parse([]byte(`
id: compiler
blueprints:
  output/hello.o:
    depends: "{{curdir}}/hello.c"
    process: []
`), "/ws/compiler", "")
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"compiler": m}, mustEmptySummary(t))
	require.NoError(t, err)

	tdb, err := Close(db, nil, []string{"output/hello.o"})
	require.NoError(t, err)

	matches := tdb.Matches["output/hello.o"]
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"/ws/compiler/hello.c"}, matches[0].Dependencies)
	assert.Contains(t, tdb.Matches, "/ws/compiler/hello.c")
}

func TestClose_BracketSequenceDependency(t *testing.T) {
	m, err := manifest.Parse([]byte(`
id: compiler
blueprints:
  all:
    depends: "[a.o, b.o]"
    process: []
`), "/ws/compiler", "")
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"compiler": m}, mustEmptySummary(t))
	require.NoError(t, err)

	tdb, err := Close(db, nil, []string{"all"})
	require.NoError(t, err)

	matches := tdb.Matches["all"]
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"a.o", "b.o"}, matches[0].Dependencies)
	assert.Contains(t, tdb.Matches, "a.o")
	assert.Contains(t, tdb.Matches, "b.o")
}

func TestClose_DataDependencyEntry(t *testing.T) {
	m, err := manifest.Parse([]byte(`
id: compiler
blueprints:
  all:
    depends:
      - data: "/*/config/optimise"
    process: []
`), "/ws/compiler", "")
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"compiler": m}, mustEmptySummary(t))
	require.NoError(t, err)

	tdb, err := Close(db, nil, []string{"all"})
	require.NoError(t, err)

	matches := tdb.Matches["all"]
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"!/*/config/optimise"}, matches[0].Dependencies)

	dataMatches, ok := tdb.Matches["!/*/config/optimise"]
	assert.True(t, ok)
	assert.Nil(t, dataMatches)
}

func TestClose_NoBlueprintMatchButRealFileSynthesisesMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	db := &Database{}
	tdb, err := Close(db, nil, []string{path})
	require.NoError(t, err)

	matches := tdb.Matches[path]
	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].Blueprint)
	assert.NotZero(t, matches[0].LastModified)
}

func TestClose_NoMatchAndNoFileIsEmptyLeaf(t *testing.T) {
	db := &Database{}
	tdb, err := Close(db, nil, []string{"nonexistent-target"})
	require.NoError(t, err)

	matches, ok := tdb.Matches["nonexistent-target"]
	assert.True(t, ok)
	assert.Empty(t, matches)
}

func mustEmptySummary(t *testing.T) *document.Node {
	t.Helper()
	n, err := document.ParseYAML([]byte("{}\n"))
	require.NoError(t, err)
	return n
}
