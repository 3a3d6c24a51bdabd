package document

import "fmt"

// MergeConflictError reports a Map⊕non-Map collision at a key, the one
// merge shape the document model refuses to reconcile automatically.
type MergeConflictError struct {
	Key string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("document: merge type conflict at key %q (map and non-map values)", e.Key)
}

// Merge combines src into dst and returns the merged result without
// modifying dst or src (a nil src returns dst itself), following the
// rules the resolver's requires/provides/supports processing depends on:
//
//   - Map ∪ Map: recurse key by key; keys only in src are appended,
//     preserving dst's existing insertion order.
//   - Scalar ⊕ Scalar (same key): becomes a two-element sequence [dst, src].
//   - Scalar ⊕ Sequence: scalar is appended to the sequence.
//   - Sequence ⊕ Scalar: scalar is appended to the sequence.
//   - Sequence ⊕ Sequence: element-wise append (src items appended to dst).
//   - Map ⊕ non-Map or non-Map ⊕ Map: *MergeConflictError.
//
// A nil dst or src is treated as an empty map of the other's kind where
// that is unambiguous; merging two nils returns nil.
func Merge(dst, src *Node) (*Node, error) {
	if src == nil {
		return dst, nil
	}
	if dst == nil {
		return src.Clone(), nil
	}

	switch {
	case dst.Kind == MapKind && src.Kind == MapKind:
		return mergeMaps(dst, src)
	case dst.Kind == MapKind || src.Kind == MapKind:
		return nil, &MergeConflictError{}
	case dst.Kind == ScalarKind && src.Kind == ScalarKind:
		return NewSequence(dst.Clone(), src.Clone()), nil
	case dst.Kind == ScalarKind && src.Kind == SequenceKind:
		items := append(cloneItems(src.Items), dst.Clone())
		return NewSequence(items...), nil
	case dst.Kind == SequenceKind && src.Kind == ScalarKind:
		items := append(cloneItems(dst.Items), src.Clone())
		return NewSequence(items...), nil
	case dst.Kind == SequenceKind && src.Kind == SequenceKind:
		items := append(cloneItems(dst.Items), cloneItems(src.Items)...)
		return NewSequence(items...), nil
	default:
		return nil, fmt.Errorf("document: unreachable merge of kinds %v and %v", dst.Kind, src.Kind)
	}
}

func mergeMaps(dst, src *Node) (*Node, error) {
	out := dst.Clone()
	for _, key := range src.Keys() {
		srcVal := src.Get(key)
		dstVal := out.Get(key)
		if dstVal == nil {
			out.Set(key, srcVal.Clone())
			continue
		}
		merged, err := Merge(dstVal, srcVal)
		if err != nil {
			if conflict, ok := err.(*MergeConflictError); ok && conflict.Key == "" {
				conflict.Key = key
			}
			return nil, err
		}
		out.Set(key, merged)
	}
	return out, nil
}

func cloneItems(items []*Node) []*Node {
	out := make([]*Node, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
