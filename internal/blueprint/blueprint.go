// Package blueprint compiles a frozen project summary's blueprint
// rules into a Blueprint Database, and matches target names against it
// to build the Target Database the build engine schedules over.
package blueprint

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/tmpl"
)

// Pattern is the tagged variant {Literal(name) | Regex(pattern)} a
// compiled blueprint rule is keyed by, avoiding string-sniffing at
// match time.
type Pattern struct {
	Value   string
	IsRegex bool
	re      *regexp.Regexp
}

// Matches reports whether target matches the pattern, returning the
// capture groups (index 0 is the full target for both forms; 1..n are
// regex groups, empty for a literal match).
func (p *Pattern) Matches(target string) (captures []string, ok bool) {
	if !p.IsRegex {
		if target == p.Value {
			return []string{target}, true
		}
		return nil, false
	}
	m := p.re.FindStringSubmatch(target)
	if m == nil {
		return nil, false
	}
	return m, true
}

// Instance is one compiled blueprint rule: its pattern, process list,
// dependency templates, and the declaring component's directory.
type Instance struct {
	Pattern         Pattern
	Process         *document.Node
	DependsTemplate *document.Node
	ParentDirectory string
	ComponentID     string
}

// Database is the compiled Blueprint Database: every component's
// blueprint rules, in insertion order (first declared, first matched,
// matching the source's "iterate every blueprint in insertion order").
type Database struct {
	Instances []*Instance
}

// Compile expands every component's `blueprints.<key>` against the
// frozen summary document and returns the Blueprint Database. An empty
// rendered regex pattern is rejected with TemplateRenderError (the
// source leaves this case undefined; compiling is where this
// implementation chooses to reject it).
func Compile(components map[string]*manifest.Manifest, summaryDoc *document.Node) (*Database, error) {
	db := &Database{}

	ids := sortedIDs(components)
	for _, id := range ids {
		m := components[id]
		rules := m.Blueprints()
		for _, key := range blueprintKeys(m) {
			inst, err := compileRule(m, key, rules[key], summaryDoc)
			if err != nil {
				return nil, err
			}
			db.Instances = append(db.Instances, inst)
		}
	}

	return db, nil
}

func compileRule(m *manifest.Manifest, key string, rule *manifest.BlueprintRule, summaryDoc *document.Node) (*Instance, error) {
	engine := tmpl.New(summaryDoc.ToInterface())

	patternSource := key
	isRegex := rule.IsRegex
	if isRegex {
		patternSource = rule.Regex
	}

	rendered, err := engine.Render(patternSource)
	if err != nil {
		return nil, errors.NewTemplateRenderError(m.Directory, patternSource, err)
	}
	if rendered == "" {
		return nil, errors.NewTemplateRenderError(m.Directory, patternSource, fmt.Errorf("blueprint %q rendered to an empty pattern", key))
	}

	pattern := Pattern{Value: rendered, IsRegex: isRegex}
	if isRegex {
		re, err := regexp.Compile("^(?:" + rendered + ")$")
		if err != nil {
			return nil, errors.NewTemplateRenderError(m.Directory, patternSource, err)
		}
		pattern.re = re
	}

	return &Instance{
		Pattern:         pattern,
		Process:         rule.Process,
		DependsTemplate: rule.Depends,
		ParentDirectory: m.Directory,
		ComponentID:     m.ID,
	}, nil
}

func blueprintKeys(m *manifest.Manifest) []string {
	node := m.Raw.Get("blueprints")
	if !node.IsMap() {
		return nil
	}
	return node.Keys()
}

func sortedIDs(components map[string]*manifest.Manifest) []string {
	ids := make([]string, 0, len(components))
	for id := range components {
		ids = append(ids, id)
	}
	// Component order only affects blueprint declaration order when two
	// components declare rules matching the same target; sort for
	// determinism across runs.
	sort.Strings(ids)
	return ids
}
