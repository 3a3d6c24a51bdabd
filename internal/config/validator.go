package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks a loaded Config for values the build engine and
// blueprint compiler cannot act on.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Jobs < 1 {
		errs = append(errs, ValidationError{
			Field:   "jobs",
			Message: "must be at least 1",
		})
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "output_dir",
			Message: "must not be empty",
		})
	}

	if cfg.SharedComponentsDir != "" && strings.TrimSpace(cfg.SharedComponentsDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "shared_components_dir",
			Message: "must not be whitespace only",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
