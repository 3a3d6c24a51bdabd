package resolver

import (
	"sort"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/output"
)

// pendingReplacements accumulates replaced-id -> replacement-id pairs
// discovered during one pass of evaluateDependencies; committed (and
// the pass restarted) only once both worklists have drained.
type pendingReplacements map[string]string

func (r *Resolver) evaluateDependencies() (evalState, error) {
	pending := pendingReplacements{}

	for len(r.uc) > 0 || len(r.uf) > 0 {
		components := r.uc
		r.uc = nil
		for _, id := range components {
			if r.requiredComponents[id] {
				continue
			}
			if replacement, ok := r.replacements[id]; ok {
				output.Info("skipping component, replaced", "component", id, "replacement", replacement)
				r.uc = append(r.uc, replacement)
				continue
			}

			m, err := r.addComponent(id)
			if err != nil {
				return 0, err
			}
			if m == nil {
				continue
			}

			if err := r.processComponentDependencies(m); err != nil {
				return 0, err
			}

			if replaced := m.Replaces(); replaced != "" {
				if committed, ok := r.replacements[replaced]; ok {
					if committed != m.ID {
						return 0, errors.NewMultipleReplacementsError(replaced, committed, m.ID)
					}
					// already committed in a prior restart, nothing new to stage
				} else if existing, ok := pending[replaced]; ok && existing != m.ID {
					return 0, errors.NewMultipleReplacementsError(replaced, existing, m.ID)
				} else {
					pending[replaced] = m.ID
				}
			}
		}

		features := r.uf
		r.uf = nil
		for _, f := range features {
			if r.requiredFeatures[f] {
				continue
			}
			r.requiredFeatures[f] = true

			for _, c := range r.components {
				if sup := c.SupportsFeature(f); sup != nil {
					output.Info("processing feature in component", "feature", f, "component", c.ID)
					if err := r.processRequirements(c, sup); err != nil {
						return 0, err
					}
				}
			}
		}

		if len(r.uc) == 0 && len(r.uf) == 0 && len(r.unprocessedChoices) > 0 {
			if seeded := r.seedDefaultChoice(); seeded {
				continue
			}
		}
	}

	if len(pending) > 0 {
		for replaced, by := range pending {
			r.replacements[replaced] = by
		}
		return stateRestart, nil
	}

	if len(r.unknownComponents) > 0 {
		return stateUnknown, nil
	}

	return stateDone, nil
}

// addComponent resolves id to a manifest, registers it as required, and
// enters its declared choices. Returns (nil, nil) for an unknown id, which
// is recorded in unknownComponents; callers skip ids already required.
func (r *Resolver) addComponent(id string) (*manifest.Manifest, error) {
	m, err := r.db.Load(id)
	if err != nil {
		return nil, errors.NewManifestParseError(id, err)
	}
	if m == nil {
		r.unknownComponents[id] = true
		return nil, nil
	}

	r.requiredComponents[id] = true
	r.components[id] = m

	for name, c := range m.Choices() {
		if _, known := r.choices[name]; known {
			continue
		}
		r.choices[name] = &Choice{
			Name:       name,
			Parent:     c.ParentID,
			Features:   c.Features,
			Components: c.Components,
			Default:    c,
		}
		r.unprocessedChoices[name] = true
	}

	return m, nil
}

// processComponentDependencies folds a newly-added component's own
// requires/provides into the worklists, then applies every already-
// required feature's and component's supports-merge against it, and
// every already-known component's supports-merge for this new id.
func (r *Resolver) processComponentDependencies(m *manifest.Manifest) error {
	r.uc = append(r.uc, m.RequiresComponents()...)
	r.uf = append(r.uf, m.RequiresFeatures()...)
	r.uf = append(r.uf, m.ProvidesFeatures()...)

	for f := range r.requiredFeatures {
		if sup := m.SupportsFeature(f); sup != nil {
			output.Info("processing required feature in new component", "feature", f, "component", m.ID)
			if err := r.processRequirements(m, sup); err != nil {
				return err
			}
		}
	}

	for c := range r.requiredComponents {
		if sup := m.SupportsComponent(c); sup != nil {
			output.Info("processing required component in new component", "component", c, "in", m.ID)
			if err := r.processRequirements(m, sup); err != nil {
				return err
			}
		}
	}

	for _, existing := range r.components {
		if existing.ID == m.ID {
			continue
		}
		if sup := existing.SupportsComponent(m.ID); sup != nil {
			output.Info("processing new component in existing component", "component", m.ID, "in", existing.ID)
			if err := r.processRequirements(existing, sup); err != nil {
				return err
			}
		}
	}

	return nil
}

// processRequirements merges child into target's manifest document, then
// re-scans child (not the merged result) for its own requires/provides/
// choices, matching the source's "merge first, then look at what the
// fragment itself asked for" order.
func (r *Resolver) processRequirements(target *manifest.Manifest, child *document.Node) error {
	if err := target.Merge(child); err != nil {
		return err
	}

	r.uc = append(r.uc, child.Lookup("requires", "components").StringValues()...)
	r.uf = append(r.uf, child.Lookup("requires", "features").StringValues()...)
	r.uf = append(r.uf, child.Lookup("provides", "features").StringValues()...)

	choicesNode := child.Get("choices")
	if choicesNode.IsMap() {
		for _, name := range choicesNode.Keys() {
			if _, known := r.choices[name]; known {
				continue
			}
			def := choicesNode.Get(name)
			r.choices[name] = &Choice{
				Name:       name,
				Parent:     target.ID,
				Features:   def.Lookup("features").StringValues(),
				Components: def.Lookup("components").StringValues(),
				Default: &manifest.Choice{
					Name:       name,
					ParentID:   target.ID,
					Features:   def.Lookup("features").StringValues(),
					Components: def.Lookup("components").StringValues(),
					Default:    def.Get("default"),
				},
			}
			r.unprocessedChoices[name] = true
		}
	}

	return nil
}

// seedDefaultChoice finds one unprocessed choice with zero current
// matches and a declared default, seeds the default into the
// appropriate worklist, and reports whether it did so.
func (r *Resolver) seedDefaultChoice() bool {
	for name := range r.unprocessedChoices {
		c := r.choices[name]
		matches := 0
		for _, f := range c.Features {
			if r.requiredFeatures[f] {
				matches++
			}
		}
		for _, id := range c.Components {
			if r.requiredComponents[id] {
				matches++
			}
		}
		delete(r.unprocessedChoices, name)

		if matches != 0 || c.Default == nil || c.Default.Default == nil {
			continue
		}
		def := c.Default.Default
		if feature := def.Get("feature"); feature.IsScalar() {
			output.Info("selecting default choice", "choice", name, "feature", feature.Scalar)
			r.uf = append(r.uf, feature.Scalar)
			return true
		}
		if component := def.Get("component"); component.IsScalar() {
			output.Info("selecting default choice", "choice", name, "component", component.Scalar)
			r.uc = append(r.uc, component.Scalar)
			return true
		}
	}
	return false
}

// finalize validates every declared choice against the closed required
// sets and returns the frozen Result.
func (r *Resolver) finalize() (*Result, error) {
	for name, c := range r.choices {
		matched := []string{}
		for _, f := range c.Features {
			if r.requiredFeatures[f] {
				matched = append(matched, f)
			}
		}
		for _, id := range c.Components {
			if r.requiredComponents[id] {
				matched = append(matched, id)
			}
		}
		switch len(matched) {
		case 0:
			return nil, errors.NewIncompleteChoiceError(name)
		case 1:
			// ok
		default:
			return nil, errors.NewMultipleAnswerChoiceError(name, matched)
		}
	}

	components := make(map[string]*manifest.Manifest, len(r.components))
	for id, m := range r.components {
		components[id] = m
	}

	return &Result{
		RequiredComponents: keysOf(r.requiredComponents),
		RequiredFeatures:   keysOf(r.requiredFeatures),
		Components:         components,
		Choices:            r.choices,
		Replacements:       r.replacements,
	}, nil
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// Sorted so repeated resolves of the same input produce byte-equal
	// summaries (§8 "Closure idempotence").
	sort.Strings(out)
	return out
}
