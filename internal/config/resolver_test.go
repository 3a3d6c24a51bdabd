// Package config provides configuration loading and management.
package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveString_FlagPrecedence(t *testing.T) {
	os.Setenv("ANVIL_REGISTRY", "env-registry.example.com")
	defer os.Unsetenv("ANVIL_REGISTRY")

	rv := ResolveString("registry", "REGISTRY", "flag-registry.example.com", "config-registry.example.com", "")

	assert.Equal(t, "flag-registry.example.com", rv.Value)
	assert.Equal(t, SourceFlag, rv.Source)
	assert.Equal(t, "env-registry.example.com", rv.Shadowed[SourceEnv])
	assert.Equal(t, "config-registry.example.com", rv.Shadowed[SourceConfig])
}

func TestResolveString_EnvPrecedence(t *testing.T) {
	os.Setenv("ANVIL_REGISTRY", "env-registry.example.com")
	defer os.Unsetenv("ANVIL_REGISTRY")

	rv := ResolveString("registry", "REGISTRY", "", "config-registry.example.com", "")

	assert.Equal(t, "env-registry.example.com", rv.Value)
	assert.Equal(t, SourceEnv, rv.Source)
	assert.Equal(t, "config-registry.example.com", rv.Shadowed[SourceConfig])
	assert.NotContains(t, rv.Shadowed, SourceFlag)
}

func TestResolveString_ConfigFallback(t *testing.T) {
	os.Unsetenv("ANVIL_REGISTRY")

	rv := ResolveString("registry", "REGISTRY", "", "config-registry.example.com", "")

	assert.Equal(t, "config-registry.example.com", rv.Value)
	assert.Equal(t, SourceConfig, rv.Source)
	assert.Empty(t, rv.Shadowed)
}

func TestResolveString_Default(t *testing.T) {
	os.Unsetenv("ANVIL_REGISTRY")

	rv := ResolveString("registry", "REGISTRY", "", "", "default-registry.example.com")

	assert.Equal(t, "default-registry.example.com", rv.Value)
	assert.Equal(t, SourceDefault, rv.Source)
	assert.Empty(t, rv.Shadowed)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "flag", string(SourceFlag))
	assert.Equal(t, "env", string(SourceEnv))
	assert.Equal(t, "config", string(SourceConfig))
	assert.Equal(t, "default", string(SourceDefault))
}
