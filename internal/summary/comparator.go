package summary

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/anvilbuild/anvil/internal/output"
)

// DataDependencyChanged implements the data-dependency comparator: a
// target name of the form `!/*/rest` or `!/<id>/rest` is considered
// changed if the corresponding JSON slice of `/components/...` differs
// between the previous and current summaries. A malformed path is
// logged as a warning and treated as unchanged (non-fatal).
func DataDependencyChanged(target string, previous, current *Summary) bool {
	path, ok := strings.CutPrefix(target, "!")
	if !ok || !strings.HasPrefix(path, "/") {
		output.Warn("malformed data dependency, treating as unchanged", "target", target)
		return false
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		output.Warn("malformed data dependency, treating as unchanged", "target", target)
		return false
	}

	if segments[0] == "*" {
		if len(segments) < 2 || segments[1] == "" {
			output.Warn("malformed data dependency, treating as unchanged", "target", target)
			return false
		}
		rest := segments[1:]
		ids := map[string]bool{}
		if current != nil {
			for id := range current.Components {
				ids[id] = true
			}
		}
		if previous != nil {
			for id := range previous.Components {
				ids[id] = true
			}
		}
		for id := range ids {
			if componentValueChanged(previous, current, id, rest) {
				return true
			}
		}
		return false
	}

	id := segments[0]
	rest := segments[1:]
	return componentValueChanged(previous, current, id, rest)
}

func componentValueChanged(previous, current *Summary, id string, path []string) bool {
	prevVal, prevOK := lookupComponentPath(previous, id, path)
	curVal, curOK := lookupComponentPath(current, id, path)

	if prevOK != curOK {
		return true
	}
	if !prevOK && !curOK {
		return false
	}
	return !reflect.DeepEqual(prevVal, curVal)
}

func lookupComponentPath(s *Summary, id string, path []string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	root, ok := s.Components[id]
	if !ok {
		return nil, false
	}
	return walkPath(root, path)
}

func walkPath(node interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return node, true
	}
	segment := path[0]
	switch v := node.(type) {
	case map[string]interface{}:
		child, ok := v[segment]
		if !ok {
			return nil, false
		}
		return walkPath(child, path[1:])
	case []interface{}:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return walkPath(v[idx], path[1:])
	default:
		return nil, false
	}
}
