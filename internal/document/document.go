// Package document implements the ordered scalar/sequence/map tree that
// backs component manifests and the project summary. Plain Go maps lose
// insertion order and collapse the scalar/sequence/map distinction a
// manifest merge depends on, so every document loaded or built by the
// resolver passes through this tree instead.
package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind tags the three shapes a Node can take.
type Kind int

const (
	// ScalarKind holds a single value (string, bool, number).
	ScalarKind Kind = iota
	// SequenceKind holds an ordered list of Nodes.
	SequenceKind
	// MapKind holds an ordered key/Node mapping.
	MapKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case SequenceKind:
		return "sequence"
	case MapKind:
		return "map"
	default:
		return "unknown"
	}
}

// entry is one key/value pair of a MapKind node. A slice of entries
// (rather than a Go map) is what preserves insertion order.
type entry struct {
	Key   string
	Value *Node
}

// Node is a tagged-variant document value: exactly one of Scalar, Items,
// or Entries is meaningful, selected by Kind. Collapsing this into a plain
// `interface{}` would lose the scalar/sequence/map distinction the merge
// algorithm (Merge) depends on.
type Node struct {
	Kind    Kind
	Scalar  string
	Items   []*Node
	entries []entry
}

// NewScalar builds a scalar node.
func NewScalar(v string) *Node {
	return &Node{Kind: ScalarKind, Scalar: v}
}

// NewSequence builds a sequence node from the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: SequenceKind, Items: items}
}

// NewMap builds an empty map node.
func NewMap() *Node {
	return &Node{Kind: MapKind}
}

// IsScalar reports whether n is a scalar (nil is treated as absent, not scalar).
func (n *Node) IsScalar() bool { return n != nil && n.Kind == ScalarKind }

// IsSequence reports whether n is a sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == SequenceKind }

// IsMap reports whether n is a map.
func (n *Node) IsMap() bool { return n != nil && n.Kind == MapKind }

// Keys returns the map's keys in insertion order. Returns nil for non-maps.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != MapKind {
		return nil
	}
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get looks up a key in a map node. Returns nil if absent or n is not a map.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != MapKind {
		return nil
	}
	for _, e := range n.entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Set inserts or replaces a key in a map node, appending new keys at the
// end to preserve insertion order. Set on a nil or non-map node is a no-op.
func (n *Node) Set(key string, value *Node) {
	if n == nil || n.Kind != MapKind {
		return
	}
	for i, e := range n.entries {
		if e.Key == key {
			n.entries[i].Value = value
			return
		}
	}
	n.entries = append(n.entries, entry{Key: key, Value: value})
}

// Lookup walks a path of map keys given as separate segments (e.g.
// Lookup("requires", "components")), returning nil if any segment is
// missing or not a map.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, p := range path {
		cur = cur.Get(p)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// StringValues returns a node's scalar value as a single-element slice, or
// every item of a sequence of scalars, in document order. Non-scalar items
// inside a sequence are skipped. Returns nil for maps and nil nodes.
func (n *Node) StringValues() []string {
	switch {
	case n == nil:
		return nil
	case n.Kind == ScalarKind:
		return []string{n.Scalar}
	case n.Kind == SequenceKind:
		out := make([]string, 0, len(n.Items))
		for _, item := range n.Items {
			if item.IsScalar() {
				out = append(out, item.Scalar)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ScalarKind:
		return &Node{Kind: ScalarKind, Scalar: n.Scalar}
	case SequenceKind:
		items := make([]*Node, len(n.Items))
		for i, it := range n.Items {
			items[i] = it.Clone()
		}
		return &Node{Kind: SequenceKind, Items: items}
	case MapKind:
		entries := make([]entry, len(n.entries))
		for i, e := range n.entries {
			entries[i] = entry{Key: e.Key, Value: e.Value.Clone()}
		}
		return &Node{Kind: MapKind, entries: entries}
	default:
		return nil
	}
}

// FromYAML decodes a yaml.Node into a document Node, preserving map
// insertion order. A document whose root is a "sequence of single-key
// maps" (an ordered-map idiom some manifests use) is normalised into a
// single map node; nested sequences such as a blueprint's `process` list
// stay sequences.
func FromYAML(y *yaml.Node) (*Node, error) {
	if y == nil {
		return nil, nil
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewMap(), nil
		}
		if root := y.Content[0]; root.Kind == yaml.SequenceNode {
			if asMap, ok := sequenceAsOrderedMap(root); ok {
				return asMap, nil
			}
		}
		return FromYAML(y.Content[0])
	case yaml.ScalarNode:
		return NewScalar(y.Value), nil
	case yaml.SequenceNode:
		items := make([]*Node, len(y.Content))
		for i, c := range y.Content {
			n, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return NewSequence(items...), nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k := y.Content[i].Value
			v, err := FromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case yaml.AliasNode:
		return FromYAML(y.Alias)
	default:
		return nil, fmt.Errorf("document: unsupported yaml node kind %v", y.Kind)
	}
}

// sequenceAsOrderedMap recognises a sequence of single-key mapping nodes
// (`- key: value` repeated) and folds it into one ordered map, the
// "sequence-of-single-key-maps" manifest form noted in the external
// interfaces contract.
func sequenceAsOrderedMap(y *yaml.Node) (*Node, bool) {
	if len(y.Content) == 0 {
		return nil, false
	}
	m := NewMap()
	for _, item := range y.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, false
		}
		v, err := FromYAML(item.Content[1])
		if err != nil {
			return nil, false
		}
		m.Set(item.Content[0].Value, v)
	}
	return m, true
}

// ParseYAML parses raw YAML bytes directly into a document Node.
func ParseYAML(data []byte) (*Node, error) {
	var y yaml.Node
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, err
	}
	return FromYAML(&y)
}

// ToInterface converts a Node into plain Go values (string, []any,
// map[string]any with keys in insertion order lost — used only where a
// consumer genuinely needs interface{}, such as JSON marshalling of the
// project summary or template data).
func (n *Node) ToInterface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ScalarKind:
		return n.Scalar
	case SequenceKind:
		out := make([]interface{}, len(n.Items))
		for i, it := range n.Items {
			out[i] = it.ToInterface()
		}
		return out
	case MapKind:
		out := make(map[string]interface{}, len(n.entries))
		for _, e := range n.entries {
			out[e.Key] = e.Value.ToInterface()
		}
		return out
	default:
		return nil
	}
}
