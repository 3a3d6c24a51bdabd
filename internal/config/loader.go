// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/viper"

	"github.com/anvilbuild/anvil/internal/output"
)

// LoaderOptions contains the CLI flag values that take precedence over
// the environment and the project config file.
type LoaderOptions struct {
	// WorkspaceDir is the directory anvil.yaml is read from (the workspace root).
	WorkspaceDir string
	// ConfigFlag is the --config flag value (overrides anvil.yaml's path).
	ConfigFlag string
	// JobsFlag is the --jobs flag value; 0 means unset.
	JobsFlag int
	// OutputDirFlag is the --output-dir flag value.
	OutputDirFlag string
	// RegistryFlag is the --registry flag value.
	RegistryFlag string
}

// Load resolves the effective Config using precedence: CLI flags >
// ANVIL_* environment variables > anvil.yaml at the workspace root >
// built-in defaults.
func Load(opts LoaderOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigName("anvil")
	v.SetConfigType("yaml")

	if opts.ConfigFlag != "" {
		v.SetConfigFile(opts.ConfigFlag)
	} else {
		v.AddConfigPath(opts.WorkspaceDir)
	}

	v.SetEnvPrefix("ANVIL")
	v.AutomaticEnv()

	v.SetDefault("jobs", runtime.NumCPU())
	v.SetDefault("output_dir", "output")
	v.SetDefault("shared_components_dir", "")
	v.SetDefault("registry", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading anvil.yaml: %w", err)
		}
		output.Debug("no anvil.yaml found, using environment and defaults", "workspace", opts.WorkspaceDir)
	}

	if opts.JobsFlag > 0 {
		v.Set("jobs", opts.JobsFlag)
	}
	if opts.OutputDirFlag != "" {
		v.Set("output_dir", opts.OutputDirFlag)
	}
	if opts.RegistryFlag != "" {
		v.Set("registry", opts.RegistryFlag)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
