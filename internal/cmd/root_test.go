package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["build"])
	assert.True(t, names["list"])
	assert.True(t, names["registry"])
	assert.True(t, names["diff"])
	assert.True(t, names["version"])
}

func TestNewRootCmd_GlobalFlagsExist(t *testing.T) {
	root := NewRootCmd()

	f := root.PersistentFlags()
	assert.NotNil(t, f.Lookup("config"))
	assert.NotNil(t, f.Lookup("verbose"))
	assert.NotNil(t, f.Lookup("registry"))
	assert.NotNil(t, f.Lookup("timestamps"))
}
