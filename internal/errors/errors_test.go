//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrManifestParse, ErrInvalidComponent)
	assert.NotEqual(t, ErrIncompleteChoice, ErrMultipleAnswerChoice)
	assert.NotEqual(t, ErrDependencyCycle, ErrCommand)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "invalid component",
		Message:  "invalid value",
		Location: "/path/to/component.yaml",
		Field:    "choices.toolchain",
		Context:  map[string]string{"component": "net.wifi.driver"},
		Hint:     "declare a default",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: invalid component")
	assert.Contains(t, output, "Location: /path/to/component.yaml")
	assert.Contains(t, output, "Field: choices.toolchain")
	assert.Contains(t, output, "component: net.wifi.driver")
	assert.Contains(t, output, "invalid value")
	assert.Contains(t, output, "Hint: declare a default")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrInvalidComponent,
	}

	assert.True(t, errors.Is(detail, ErrInvalidComponent))
	assert.Equal(t, ErrInvalidComponent, detail.Unwrap())
}

func TestNewIncompleteChoiceError(t *testing.T) {
	err := NewIncompleteChoiceError("toolchain")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteChoice))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "toolchain", detail.Field)
}

func TestNewMultipleAnswerChoiceError(t *testing.T) {
	err := NewMultipleAnswerChoiceError("toolchain", []string{"gcc", "clang"})

	assert.True(t, errors.Is(err, ErrMultipleAnswerChoice))
	assert.Contains(t, err.Error(), "gcc")
	assert.Contains(t, err.Error(), "clang")
}

func TestNewMultipleReplacementsError(t *testing.T) {
	err := NewMultipleReplacementsError("net.wifi.driver", "net.wifi.driver.v1", "net.wifi.driver.v2")

	assert.True(t, errors.Is(err, ErrMultipleReplacements))
	assert.Contains(t, err.Error(), "net.wifi.driver.v1")
	assert.Contains(t, err.Error(), "net.wifi.driver.v2")
}

func TestNewUnknownComponentError(t *testing.T) {
	err := NewUnknownComponentError("net.wifi.driver")

	assert.True(t, errors.Is(err, ErrUnknownComponent))
	assert.Contains(t, err.Error(), "net.wifi.driver")
}

func TestNewDataDependencyMalformedError(t *testing.T) {
	err := NewDataDependencyMalformedError("!config/optimise")

	assert.True(t, errors.Is(err, ErrDataDependencyMalformed))
}

func TestNewDependencyCycleError(t *testing.T) {
	err := NewDependencyCycleError([]string{"a.o", "b.o", "a.o"})

	assert.True(t, errors.Is(err, ErrDependencyCycle))
	assert.Contains(t, err.Error(), "a.o")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrManifestParse, "loading component.yaml")

	assert.True(t, errors.Is(wrapped, ErrManifestParse))
	assert.Contains(t, wrapped.Error(), "loading component.yaml")
}
