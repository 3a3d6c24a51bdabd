// Package buildengine schedules a target database's closure as a task
// graph over a bounded worker pool, re-running each target's process
// list only when a dependency is newer (§4.4).
package buildengine

import (
	"sort"
	"strings"

	"github.com/anvilbuild/anvil/internal/blueprint"
	"github.com/anvilbuild/anvil/internal/errors"
)

// NodeState is a task graph node's terminal outcome once processed.
type NodeState int32

const (
	StatePending NodeState = iota
	StateDone
	StateFailed
)

// finishNodeName names the synthetic sink node every user-requested
// target feeds into; not a legal blueprint target name, so it can never
// collide with a real one.
const finishNodeName = "@finish"

// Node is one (target name, match) pair in the build task graph. A
// target with zero matches (leaf file, data dependency) or with several
// ambiguous matches still gets one Node per match (or a single bare Node
// for the zero-match case).
type Node struct {
	Name  string
	Match *blueprint.TargetMatch // nil for a leaf/data-dependency/finish node

	Predecessors []*Node
	Successors   []*Node

	LastModified int64
	State        NodeState
	Err          error
}

// IsDataDependency reports whether the node represents a `!`-prefixed
// data dependency rather than a filesystem target.
func (n *Node) IsDataDependency() bool {
	return strings.HasPrefix(n.Name, "!")
}

// Graph is the build task graph: one node group per target name, plus a
// synthetic Finish sink depending on every initially requested target.
type Graph struct {
	groups map[string][]*Node
	Finish *Node
}

// Build constructs the task graph from a resolved target database. Every
// name reachable from initialTargets is already present in tdb (blueprint.Close
// guarantees this), so a missing group here would be an invariant
// violation rather than user error.
func Build(tdb *blueprint.TargetDatabase, initialTargets []string) (*Graph, error) {
	g := &Graph{groups: make(map[string][]*Node, len(tdb.Matches))}

	for name, matches := range tdb.Matches {
		if len(matches) == 0 {
			g.groups[name] = []*Node{{Name: name}}
			continue
		}
		nodes := make([]*Node, len(matches))
		for i, m := range matches {
			nodes[i] = &Node{Name: name, Match: m}
		}
		g.groups[name] = nodes
	}

	for _, nodes := range g.groups {
		for _, n := range nodes {
			if n.Match == nil {
				continue
			}
			for _, dep := range n.Match.Dependencies {
				depClean := strings.TrimPrefix(dep, "./")
				for _, p := range g.groups[depClean] {
					p.Successors = append(p.Successors, n)
					n.Predecessors = append(n.Predecessors, p)
				}
			}
		}
	}

	g.Finish = &Node{Name: finishNodeName}
	for _, name := range initialTargets {
		clean := strings.TrimPrefix(name, "./")
		for _, p := range g.groups[clean] {
			p.Successors = append(p.Successors, g.Finish)
			g.Finish.Predecessors = append(g.Finish.Predecessors, p)
		}
	}

	if cycle := detectCycle(g); cycle != nil {
		return nil, errors.NewDependencyCycleError(cycle)
	}

	return g, nil
}

// allNodes returns every node, including Finish, ordered by target name
// so scheduling is reproducible across runs given identical inputs.
func (g *Graph) allNodes() []*Node {
	names := make([]string, 0, len(g.groups))
	for name := range g.groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Node, 0, len(names)+1)
	for _, name := range names {
		out = append(out, g.groups[name]...)
	}
	return append(out, g.Finish)
}

// detectCycle runs a white/gray/black DFS over the successor relation
// and returns the first cycle found, or nil.
func detectCycle(g *Graph) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[*Node]int{}
	var path []string
	var cycle []string

	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		color[n] = gray
		path = append(path, n.Name)
		for _, s := range n.Successors {
			switch color[s] {
			case gray:
				cycle = append(append([]string{}, path...), s.Name)
				return true
			case white:
				if visit(s) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	for _, nodes := range g.groups {
		for _, n := range nodes {
			if color[n] == white && visit(n) {
				return cycle
			}
		}
	}
	return nil
}
