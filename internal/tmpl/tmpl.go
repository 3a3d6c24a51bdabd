// Package tmpl implements the blueprint/command template engine
// contract: render(template string, data) -> (string, error), backed by
// text/template, with two callbacks blueprint matching installs into
// the template's function map: `capture n` for a regex capture group and
// `curdir()` for a blueprint's parent directory.
package tmpl

import (
	"bytes"
	"text/template"

	"github.com/anvilbuild/anvil/internal/errors"
)

// Engine renders templates against a fixed data value, with an
// extensible function map. Each Render call parses fresh (blueprint
// templates are short and rendered once per match), matching the
// teacher's renderer.go which parses per-call rather than caching.
type Engine struct {
	data  interface{}
	funcs template.FuncMap
}

// New builds an Engine rendering against data with no extra functions.
func New(data interface{}) *Engine {
	return &Engine{data: data, funcs: template.FuncMap{}}
}

// WithFunc returns a copy of e with an additional named function
// available to templates.
func (e *Engine) WithFunc(name string, fn interface{}) *Engine {
	funcs := make(template.FuncMap, len(e.funcs)+1)
	for k, v := range e.funcs {
		funcs[k] = v
	}
	funcs[name] = fn
	return &Engine{data: e.data, funcs: funcs}
}

// WithData returns a copy of e rendering against a different data value,
// keeping the same function map (used to override `data`/`data_file` per
// command invocation without re-registering callbacks).
func (e *Engine) WithData(data interface{}) *Engine {
	return &Engine{data: data, funcs: e.funcs}
}

// Render parses and executes tmplStr against e's data and function map.
func (e *Engine) Render(tmplStr string) (string, error) {
	t, err := template.New("blueprint").Funcs(e.funcs).Parse(tmplStr)
	if err != nil {
		return "", errors.NewTemplateRenderError("", tmplStr, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, e.data); err != nil {
		return "", errors.NewTemplateRenderError("", tmplStr, err)
	}
	return buf.String(), nil
}

// MatchContext builds the per-target template context the blueprint
// compiler and target database establish for each match: `capture n`
// returns regex capture group n (0 is the whole match; text/template's
// grammar reserves the bare `$` token for the root variable, so the
// blueprint vocabulary's `$(n)` callback is installed under the name
// `capture` instead), and `curdir` returns the blueprint's parent
// directory.
func MatchContext(data interface{}, captures []string, parentDirectory string) *Engine {
	return New(data).
		WithFunc("capture", func(n int) string {
			if n < 0 || n >= len(captures) {
				return ""
			}
			return captures[n]
		}).
		WithFunc("curdir", func() string {
			return parentDirectory
		})
}
