// Package manifest parses and represents component manifests: the
// structured documents describing a component's requirements, provided
// features, supports-merges, choices, blueprints, and tools.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
)

// Choice is a named selector requiring exactly one of its listed
// features or components to land in the required set.
type Choice struct {
	Name       string
	ParentID   string
	Features   []string
	Components []string
	Default    *document.Node
}

// BlueprintRule is one `blueprints.<key>` entry of a manifest, kept as
// its raw document node plus the pre-extracted pattern metadata the
// blueprint compiler needs.
type BlueprintRule struct {
	Key      string
	Regex    string // rendered pattern is empty until compiled; this is the raw template string, if present
	IsRegex  bool
	Depends  *document.Node
	Process  *document.Node
	Metadata *document.Node
}

// Manifest is a parsed component manifest. Raw holds the full document
// tree so the resolver's merge step can operate on it directly; the
// typed fields below are a read-through convenience over Raw.
type Manifest struct {
	ID        string
	Name      string
	Directory string

	Raw *document.Node
}

// Load reads and parses a manifest file at path. The component's
// directory defaults to the manifest's parent directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewManifestParseError(path, err)
	}
	return Parse(data, filepath.Dir(path), path)
}

// Parse builds a Manifest from raw YAML bytes. dir is the component's
// directory (used as `directory` when the manifest omits root_path).
func Parse(data []byte, dir, sourcePath string) (*Manifest, error) {
	root, err := document.ParseYAML(data)
	if err != nil {
		return nil, errors.NewManifestParseError(sourcePath, err)
	}
	if root == nil || !root.IsMap() {
		return nil, errors.NewManifestParseError(sourcePath, errMalformedManifest)
	}

	m := &Manifest{Raw: root}

	if id := root.Get("id"); id.IsScalar() {
		m.ID = id.Scalar
	}
	if name := root.Get("name"); name.IsScalar() {
		m.Name = name.Scalar
	}
	if m.ID == "" {
		m.ID = m.Name
	}
	if m.ID == "" {
		return nil, errors.NewManifestParseError(sourcePath, errMissingID)
	}
	if m.Name == "" {
		m.Name = m.ID
	}

	m.Directory = dir
	if rp := root.Get("root_path"); rp.IsScalar() && rp.Scalar != "" {
		if filepath.IsAbs(rp.Scalar) {
			m.Directory = rp.Scalar
		} else {
			m.Directory = filepath.Join(dir, rp.Scalar)
		}
	}

	return m, nil
}

// RequiresComponents returns the component ids this manifest requires.
func (m *Manifest) RequiresComponents() []string {
	return m.Raw.Lookup("requires", "components").StringValues()
}

// RequiresFeatures returns the feature names this manifest requires.
func (m *Manifest) RequiresFeatures() []string {
	return m.Raw.Lookup("requires", "features").StringValues()
}

// ProvidesFeatures returns the feature names this manifest contributes.
func (m *Manifest) ProvidesFeatures() []string {
	return m.Raw.Lookup("provides", "features").StringValues()
}

// SupportsFeature returns the sub-document to merge when feature f
// becomes required, or nil if this manifest has no such entry.
func (m *Manifest) SupportsFeature(f string) *document.Node {
	return m.Raw.Lookup("supports", "features", f)
}

// SupportsComponent returns the sub-document to merge when component c
// becomes required, or nil if this manifest has no such entry.
func (m *Manifest) SupportsComponent(c string) *document.Node {
	return m.Raw.Lookup("supports", "components", c)
}

// Replaces returns the id this component substitutes for, or "" if none.
func (m *Manifest) Replaces() string {
	n := m.Raw.Lookup("replaces", "component")
	if n.IsScalar() {
		return n.Scalar
	}
	return ""
}

// Choices returns this manifest's declared choices, keyed by name.
func (m *Manifest) Choices() map[string]*Choice {
	choicesNode := m.Raw.Get("choices")
	if !choicesNode.IsMap() {
		return nil
	}
	out := make(map[string]*Choice, len(choicesNode.Keys()))
	for _, name := range choicesNode.Keys() {
		def := choicesNode.Get(name)
		out[name] = &Choice{
			Name:       name,
			ParentID:   m.ID,
			Features:   def.Lookup("features").StringValues(),
			Components: def.Lookup("components").StringValues(),
			Default:    def.Get("default"),
		}
	}
	return out
}

// Blueprints returns this manifest's declared blueprint rules, keyed by
// their manifest key (insertion order not preserved in the map; callers
// needing order should iterate m.Raw.Get("blueprints").Keys() directly).
func (m *Manifest) Blueprints() map[string]*BlueprintRule {
	bpNode := m.Raw.Get("blueprints")
	if !bpNode.IsMap() {
		return nil
	}
	out := make(map[string]*BlueprintRule, len(bpNode.Keys()))
	for _, key := range bpNode.Keys() {
		rule := bpNode.Get(key)
		br := &BlueprintRule{
			Key:      key,
			Depends:  rule.Get("depends"),
			Process:  rule.Get("process"),
			Metadata: rule,
		}
		if regex := rule.Get("regex"); regex.IsScalar() {
			br.IsRegex = true
			br.Regex = regex.Scalar
		}
		out[key] = br
	}
	return out
}

// Tools returns this manifest's declared `tools.<name>` templates, keyed
// by name, each an unexpanded template string.
func (m *Manifest) Tools() map[string]string {
	toolsNode := m.Raw.Get("tools")
	if !toolsNode.IsMap() {
		return nil
	}
	out := make(map[string]string, len(toolsNode.Keys()))
	for _, name := range toolsNode.Keys() {
		if v := toolsNode.Get(name); v.IsScalar() {
			out[name] = v.Scalar
		}
	}
	return out
}

// Merge folds src's document tree into m's in place, following
// document.Merge's rules. Used when a supports.* entry activates.
func (m *Manifest) Merge(src *document.Node) error {
	merged, err := document.Merge(m.Raw, src)
	if err != nil {
		if conflict, ok := err.(*document.MergeConflictError); ok {
			return errors.NewMergeTypeConflictError(conflict.Key, conflict)
		}
		return err
	}
	m.Raw = merged
	return nil
}

// Clone returns a deep copy of m, independent of the original's Raw tree.
func (m *Manifest) Clone() *Manifest {
	return &Manifest{
		ID:        m.ID,
		Name:      m.Name,
		Directory: m.Directory,
		Raw:       m.Raw.Clone(),
	}
}
