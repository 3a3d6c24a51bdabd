// Package errors provides the resolver/build-engine error kinds, each a
// wrapped sentinel carrying a human-readable diagnostic and a cause chain.
package errors

import (
	"fmt"
	"strings"
)

// DetailError captures structured error information: a category, a
// message, and optional location/field/context for diagnostics printed
// to the console.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (and line, where known) the error
	// originated from (optional).
	Location string

	// Field names the offending manifest key for resolver errors (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying sentinel error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying sentinel error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewManifestParseError wraps a YAML/document parse failure.
func NewManifestParseError(location string, cause error) error {
	return &DetailError{
		Type:     "manifest parse error",
		Message:  cause.Error(),
		Location: location,
		Cause:    ErrManifestParse,
	}
}

// NewInvalidComponentError reports a component the resolver cannot act on.
func NewInvalidComponentError(componentID, message string) error {
	return &DetailError{
		Type:    "invalid component",
		Message: message,
		Field:   componentID,
		Cause:   ErrInvalidComponent,
	}
}

// NewIncompleteChoiceError reports a choice with zero required options.
func NewIncompleteChoiceError(choiceName string) error {
	return &DetailError{
		Type:    "incomplete choice",
		Message: fmt.Sprintf("choice %q has no option in the required set", choiceName),
		Field:   choiceName,
		Cause:   ErrIncompleteChoice,
	}
}

// NewMultipleAnswerChoiceError reports a choice with more than one required option.
func NewMultipleAnswerChoiceError(choiceName string, matched []string) error {
	return &DetailError{
		Type:    "multiple answer choice",
		Message: fmt.Sprintf("choice %q has %d options in the required set: %v", choiceName, len(matched), matched),
		Field:   choiceName,
		Cause:   ErrMultipleAnswerChoice,
	}
}

// NewMultipleReplacementsError reports conflicting replaces.component targets.
func NewMultipleReplacementsError(targetID, first, second string) error {
	return &DetailError{
		Type:    "multiple replacements",
		Message: fmt.Sprintf("component %q is replaced by both %q and %q", targetID, first, second),
		Field:   targetID,
		Cause:   ErrMultipleReplacements,
	}
}

// NewMergeTypeConflictError reports a Map⊕non-Map merge collision.
func NewMergeTypeConflictError(key string, cause error) error {
	return &DetailError{
		Type:    "merge type conflict",
		Message: cause.Error(),
		Field:   key,
		Cause:   ErrMergeTypeConflict,
	}
}

// NewUnknownComponentError reports a component id absent from the workspace database.
func NewUnknownComponentError(componentID string) error {
	return &DetailError{
		Type:    "unknown component",
		Message: fmt.Sprintf("no manifest found for component %q", componentID),
		Field:   componentID,
		Cause:   ErrUnknownComponent,
	}
}

// NewTemplateRenderError reports a template rendering failure.
func NewTemplateRenderError(location, template string, cause error) error {
	return &DetailError{
		Type:     "template render error",
		Message:  cause.Error(),
		Location: location,
		Context:  map[string]string{"template": template},
		Cause:    ErrTemplateRender,
	}
}

// NewCommandError reports a non-zero process exit.
func NewCommandError(target string, exitCode int, output string) error {
	return &DetailError{
		Type:    "command error",
		Message: fmt.Sprintf("exited with status %d", exitCode),
		Field:   target,
		Context: map[string]string{"output": output},
		Cause:   ErrCommand,
	}
}

// NewDataDependencyMalformedError reports an `!` dependency that is not `!/...`-shaped.
func NewDataDependencyMalformedError(path string) error {
	return &DetailError{
		Type:    "malformed data dependency",
		Message: fmt.Sprintf("data dependency path %q is not of the form !/...", path),
		Field:   path,
		Cause:   ErrDataDependencyMalformed,
	}
}

// NewDependencyCycleError reports a cycle detected in the target graph.
func NewDependencyCycleError(cycle []string) error {
	return &DetailError{
		Type:    "dependency cycle",
		Message: fmt.Sprintf("targets form a cycle: %v", cycle),
		Cause:   ErrDependencyCycle,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
