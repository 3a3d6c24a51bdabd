package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilbuild/anvil/internal/config"
	"github.com/anvilbuild/anvil/internal/testutil"
)

func TestNewListCmd_NoArgs(t *testing.T) {
	cmd := NewListCmd()

	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.Args)
}

func TestRunList_FindsScannedComponent(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	testutil.WriteFile(t, dir, "widget/component.yaml", "id: widget\n")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	anvilConfig = config.DefaultConfig()

	cmd := NewListCmd()
	require.NoError(t, cmd.Execute())
}
