// Package commandlib implements the build engine's process-list command
// library (§2, §6): a small set of named operations a blueprint's
// `process` entries can invoke, each threading a single accumulator
// value (captured_output) from one command to the next.
package commandlib

import (
	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/tmpl"
)

// Context carries the per-invocation state a command handler needs: the
// build target it is running for, the previous command's captured
// output (the process list's accumulator), and the template engine
// already bound to this node's match (captures and curdir included).
type Context struct {
	Target   string
	Previous string
	Engine   *tmpl.Engine
}

// Handler executes one process-list command and returns the new
// accumulator value.
type Handler func(ctx Context, args *document.Node) (string, error)

// Registry maps a command name to its handler.
type Registry map[string]Handler
