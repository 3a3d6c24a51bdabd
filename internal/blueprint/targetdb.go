package blueprint

import (
	"os"
	"strings"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/tmpl"
	"github.com/anvilbuild/anvil/pkg/depfile"
)

// TargetMatch is one blueprint (or filesystem-only) match for a target
// name. A target can have zero matches (leaf with no action), one, or
// several (ambiguous rule overlap; all run).
type TargetMatch struct {
	TargetName   string
	Blueprint    *Instance // nil for a synthesized filesystem-only match
	Captures     []string
	Dependencies []string // dependency names; a "!"-prefix marks a data dependency
	LastModified int64    // unix nanoseconds; 0 if unknown
}

// TargetDatabase maps a target name to every match found for it.
type TargetDatabase struct {
	Matches         map[string][]*TargetMatch
	warnedAmbiguous map[string]bool
}

// NewTargetDatabase returns an empty database.
func NewTargetDatabase() *TargetDatabase {
	return &TargetDatabase{Matches: map[string][]*TargetMatch{}, warnedAmbiguous: map[string]bool{}}
}

// Close computes the target database's closure starting from the
// user's requested command names, following every match's dependency
// list until no new target name appears.
func Close(db *Database, summaryData interface{}, initialTargets []string) (*TargetDatabase, error) {
	for _, t := range initialTargets {
		if strings.HasPrefix(t, "!") {
			return nil, errors.NewInvalidComponentError(t, "a data dependency cannot be requested directly as a build command")
		}
	}

	tdb := NewTargetDatabase()
	queue := append([]string{}, initialTargets...)
	seen := map[string]bool{}

	for len(queue) > 0 {
		name := strings.TrimPrefix(queue[0], "./")
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		if strings.HasPrefix(name, "!") {
			// A data dependency's freshness is resolved by the summary
			// comparator at build time, not by blueprint matching.
			tdb.Matches[name] = nil
			continue
		}

		matches, err := tdb.resolveTarget(db, summaryData, name)
		if err != nil {
			return nil, err
		}
		tdb.Matches[name] = matches

		for _, m := range matches {
			for _, dep := range m.Dependencies {
				depClean := strings.TrimPrefix(dep, "./")
				if !seen[depClean] {
					queue = append(queue, depClean)
				}
			}
		}
	}

	return tdb, nil
}

func (tdb *TargetDatabase) resolveTarget(db *Database, summaryData interface{}, name string) ([]*TargetMatch, error) {
	var matches []*TargetMatch

	for _, inst := range db.Instances {
		captures, ok := inst.Pattern.Matches(name)
		if !ok {
			continue
		}
		m, err := buildMatch(inst, name, captures, summaryData)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	if len(matches) > 1 && !tdb.warnedAmbiguous[name] {
		output.Warn("multiple blueprints matched the same target; running all of them", "target", name)
		tdb.warnedAmbiguous[name] = true
	}

	if info, err := os.Stat(name); err == nil {
		mtime := info.ModTime().UnixNano()
		if len(matches) == 0 {
			matches = append(matches, &TargetMatch{TargetName: name, LastModified: mtime})
		} else {
			for _, m := range matches {
				m.LastModified = mtime
			}
		}
	}

	return matches, nil
}

func buildMatch(inst *Instance, targetName string, captures []string, summaryData interface{}) (*TargetMatch, error) {
	engine := tmpl.MatchContext(summaryData, captures, inst.ParentDirectory)

	deps, err := renderDependencies(engine, inst.DependsTemplate)
	if err != nil {
		return nil, err
	}

	return &TargetMatch{
		TargetName:   targetName,
		Blueprint:    inst,
		Captures:     captures,
		Dependencies: deps,
	}, nil
}

func renderDependencies(engine *tmpl.Engine, depends *document.Node) ([]string, error) {
	if depends == nil {
		return nil, nil
	}

	entries := []*document.Node{depends}
	if depends.IsSequence() {
		entries = depends.Items
	}

	var out []string
	for _, entry := range entries {
		deps, err := renderDependencyEntry(engine, entry)
		if err != nil {
			return nil, err
		}
		out = append(out, deps...)
	}
	return out, nil
}

func renderDependencyEntry(engine *tmpl.Engine, entry *document.Node) ([]string, error) {
	if entry.IsMap() {
		if depFile := entry.Get("dependency_file"); depFile.IsScalar() {
			rendered, err := engine.Render(depFile.Scalar)
			if err != nil {
				return nil, err
			}
			return depfile.ParseFile(rendered)
		}
		if data := entry.Get("data"); data.IsScalar() {
			rendered, err := engine.Render(data.Scalar)
			if err != nil {
				return nil, err
			}
			return []string{"!" + rendered}, nil
		}
		return nil, nil
	}

	if !entry.IsScalar() {
		return nil, nil
	}

	rendered, err := engine.Render(entry.Scalar)
	if err != nil {
		return nil, err
	}

	if seq, ok := parseBracketSequence(rendered); ok {
		return seq, nil
	}
	return []string{rendered}, nil
}

// parseBracketSequence recognises a rendered `[a, b, c]` scalar as a
// sequence of dependency names rather than one literal name.
func parseBracketSequence(s string) ([]string, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, false
	}
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"))
	if inner == "" {
		return []string{}, true
	}
	parts := strings.Split(inner, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, true
}
