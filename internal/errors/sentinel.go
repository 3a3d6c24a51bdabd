package errors

import "errors"

// Sentinel errors for the resolver, blueprint compiler, and build engine.
var (
	// ErrManifestParse indicates a component manifest failed to parse.
	ErrManifestParse = errors.New("manifest parse error")

	// ErrInvalidComponent indicates a component declares something the
	// resolver cannot act on (a malformed choice, a self-replacement).
	ErrInvalidComponent = errors.New("invalid component")

	// ErrIncompleteChoice indicates a declared choice had zero of its
	// listed options land in the required set.
	ErrIncompleteChoice = errors.New("incomplete choice")

	// ErrMultipleAnswerChoice indicates more than one option of a
	// declared choice landed in the required set.
	ErrMultipleAnswerChoice = errors.New("multiple answer choice")

	// ErrMultipleReplacements indicates two components both declare
	// replaces.component for the same target id with different ids.
	ErrMultipleReplacements = errors.New("multiple replacements")

	// ErrMergeTypeConflict indicates a Map⊕non-Map collision during
	// manifest merging.
	ErrMergeTypeConflict = errors.New("merge type conflict")

	// ErrUnknownComponent indicates a required component id has no
	// manifest in the workspace database, even after one refresh retry.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrTemplateRender indicates a template failed to render.
	ErrTemplateRender = errors.New("template render error")

	// ErrCommand indicates a process invocation exited non-zero.
	ErrCommand = errors.New("command error")

	// ErrDataDependencyMalformed indicates a data-dependency path did
	// not have the `!/...` shape. Non-fatal: callers treat it as a
	// logged warning and the dependency as unchanged.
	ErrDataDependencyMalformed = errors.New("malformed data dependency")

	// ErrDependencyCycle indicates the target graph is not a DAG.
	ErrDependencyCycle = errors.New("dependency cycle")
)
