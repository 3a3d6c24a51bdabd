package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/manifest"
)

func mustManifest(t *testing.T, yamlSrc, dir string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(yamlSrc), dir, "")
	require.NoError(t, err)
	return m
}

func TestCompile_LiteralBlueprintMatches(t *testing.T) {
	m := mustManifest(t, `
id: compiler
blueprints:
  output/hello.o:
    process:
      - execute: "cc -c {{curdir}}/hello.c -o {{.ProjectOutput}}"
`, "/ws/compiler")

	summary, err := document.ParseYAML([]byte("project_output: out\n"))
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"compiler": m}, summary)
	require.NoError(t, err)
	require.Len(t, db.Instances, 1)

	inst := db.Instances[0]
	assert.False(t, inst.Pattern.IsRegex)
	assert.Equal(t, "output/hello.o", inst.Pattern.Value)

	captures, ok := inst.Pattern.Matches("output/hello.o")
	assert.True(t, ok)
	assert.Equal(t, []string{"output/hello.o"}, captures)

	_, ok = inst.Pattern.Matches("output/other.o")
	assert.False(t, ok)
}

func TestCompile_RegexBlueprintMatches(t *testing.T) {
	m := mustManifest(t, `
id: compiler
blueprints:
  object_rule:
    regex: ".*\\.o"
    process:
      - execute: "cc -c {{capture 0}}"
`, "/ws/compiler")

	summary, err := document.ParseYAML([]byte("{}\n"))
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"compiler": m}, summary)
	require.NoError(t, err)
	require.Len(t, db.Instances, 1)

	inst := db.Instances[0]
	assert.True(t, inst.Pattern.IsRegex)

	captures, ok := inst.Pattern.Matches("foo.o")
	assert.True(t, ok)
	assert.Equal(t, []string{"foo.o"}, captures)

	_, ok = inst.Pattern.Matches("foo.c")
	assert.False(t, ok)
}

func TestCompile_EmptyRenderedPatternFails(t *testing.T) {
	m := mustManifest(t, `
id: compiler
blueprints:
  "{{.project_output}}":
    process: []
`, "/ws/compiler")

	summary, err := document.ParseYAML([]byte("project_output: \"\"\n"))
	require.NoError(t, err)

	_, err = Compile(map[string]*manifest.Manifest{"compiler": m}, summary)
	assert.Error(t, err)
}

func TestCompile_OrdersByComponentIDThenDeclarationOrder(t *testing.T) {
	a := mustManifest(t, "id: a\nblueprints:\n  a.out:\n    process: []\n", "/ws/a")
	b := mustManifest(t, "id: b\nblueprints:\n  b.out:\n    process: []\n", "/ws/b")

	summary, err := document.ParseYAML([]byte("{}\n"))
	require.NoError(t, err)

	db, err := Compile(map[string]*manifest.Manifest{"b": b, "a": a}, summary)
	require.NoError(t, err)
	require.Len(t, db.Instances, 2)
	assert.Equal(t, "a.out", db.Instances[0].Pattern.Value)
	assert.Equal(t, "b.out", db.Instances[1].Pattern.Value)
}
