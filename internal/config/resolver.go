// Package config provides configuration loading and management.
package config

import (
	"os"

	"github.com/anvilbuild/anvil/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from anvil.yaml.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveString resolves a single string configuration value using
// precedence flag > env (ANVIL_<envKey>) > config file value > default,
// and records which lower-precedence sources were shadowed. Used for
// --verbose resolution logging; the actual value returned by Load comes
// from viper and should already match what this reports.
func ResolveString(key, envKey, flagValue, configValue, defaultValue string) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: map[ConfigSource]any{}}
	envValue := os.Getenv("ANVIL_" + envKey)

	switch {
	case flagValue != "":
		rv.Value, rv.Source = flagValue, SourceFlag
		if envValue != "" {
			rv.Shadowed[SourceEnv] = envValue
		}
		if configValue != "" {
			rv.Shadowed[SourceConfig] = configValue
		}
	case envValue != "":
		rv.Value, rv.Source = envValue, SourceEnv
		if configValue != "" {
			rv.Shadowed[SourceConfig] = configValue
		}
	case configValue != "":
		rv.Value, rv.Source = configValue, SourceConfig
	default:
		rv.Value, rv.Source = defaultValue, SourceDefault
	}

	return rv
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
