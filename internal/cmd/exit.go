// Package cmd provides CLI command implementations.
package cmd

import (
	"errors"
	"os"

	oerrors "github.com/anvilbuild/anvil/internal/errors"
)

// Exit codes for the anvil CLI.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitValidationError = 2
	ExitNotFound        = 5
)

// ExitCodeFromError maps an error to the appropriate exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, oerrors.ErrUnknownComponent):
		return ExitNotFound
	case errors.Is(err, oerrors.ErrManifestParse),
		errors.Is(err, oerrors.ErrInvalidComponent),
		errors.Is(err, oerrors.ErrIncompleteChoice),
		errors.Is(err, oerrors.ErrMultipleAnswerChoice),
		errors.Is(err, oerrors.ErrMultipleReplacements),
		errors.Is(err, oerrors.ErrMergeTypeConflict),
		errors.Is(err, oerrors.ErrDependencyCycle),
		errors.Is(err, oerrors.ErrTemplateRender):
		return ExitValidationError
	}

	return ExitGeneralError
}

// Exit terminates the program with the appropriate exit code for the error.
func Exit(err error) {
	os.Exit(ExitCodeFromError(err))
}
