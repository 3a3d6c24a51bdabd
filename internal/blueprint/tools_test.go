package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/manifest"
)

func TestExpandTools_RendersAgainstSummary(t *testing.T) {
	a := mustManifest(t, `
id: a
tools:
  cc: "{{.HostOS}}-gcc"
`, "/ws/a")
	b := mustManifest(t, `
id: b
tools:
  ld: "gnu-ld"
`, "/ws/b")

	summary, err := document.ParseYAML([]byte("HostOS: linux\n"))
	require.NoError(t, err)

	tools, err := ExpandTools(map[string]*manifest.Manifest{"a": a, "b": b}, summary)
	require.NoError(t, err)
	assert.Equal(t, "linux-gcc", tools["cc"])
	assert.Equal(t, "gnu-ld", tools["ld"])
}

func TestExpandTools_LaterComponentOverridesSameName(t *testing.T) {
	a := mustManifest(t, `
id: a
tools:
  cc: "clang"
`, "/ws/a")
	z := mustManifest(t, `
id: z
tools:
  cc: "gcc"
`, "/ws/z")

	summary, err := document.ParseYAML([]byte("{}\n"))
	require.NoError(t, err)

	tools, err := ExpandTools(map[string]*manifest.Manifest{"a": a, "z": z}, summary)
	require.NoError(t, err)
	assert.Equal(t, "gcc", tools["cc"], "sortedIDs orders z after a, so z's tool wins")
}
