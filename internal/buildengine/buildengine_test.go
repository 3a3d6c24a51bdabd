package buildengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilbuild/anvil/internal/blueprint"
	"github.com/anvilbuild/anvil/internal/document"
)

func literalInstance(pattern string, process *document.Node, deps ...string) *blueprint.Instance {
	depsNode := document.NewSequence()
	for _, d := range deps {
		depsNode.Items = append(depsNode.Items, document.NewScalar(d))
	}
	return &blueprint.Instance{
		Pattern:         blueprint.Pattern{Value: pattern},
		Process:         process,
		DependsTemplate: depsNode,
		ParentDirectory: ".",
		ComponentID:     "c",
	}
}

func processOf(commands ...*document.Node) *document.Node {
	return document.NewSequence(commands...)
}

func commandEntry(name string, arg *document.Node) *document.Node {
	m := document.NewMap()
	m.Set(name, arg)
	return m
}

func TestBuild_LinearChainWiresPredecessors(t *testing.T) {
	tdb := blueprint.NewTargetDatabase()
	tdb.Matches["b"] = []*blueprint.TargetMatch{{TargetName: "b", Dependencies: []string{"a"}}}
	tdb.Matches["a"] = nil

	g, err := Build(tdb, []string{"b"})
	require.NoError(t, err)

	bNode := g.groups["b"][0]
	aNode := g.groups["a"][0]
	require.Len(t, bNode.Predecessors, 1)
	assert.Same(t, aNode, bNode.Predecessors[0])
	require.Len(t, aNode.Successors, 1)
	assert.Same(t, bNode, aNode.Successors[0])

	require.Len(t, g.Finish.Predecessors, 1)
	assert.Same(t, bNode, g.Finish.Predecessors[0])
}

func TestBuild_DetectsCycle(t *testing.T) {
	tdb := blueprint.NewTargetDatabase()
	tdb.Matches["a"] = []*blueprint.TargetMatch{{TargetName: "a", Dependencies: []string{"b"}}}
	tdb.Matches["b"] = []*blueprint.TargetMatch{{TargetName: "b", Dependencies: []string{"a"}}}

	_, err := Build(tdb, []string{"a"})
	assert.Error(t, err)
}

func TestEngine_RunsLeafThenDependent(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello"), 0o644))

	inst := literalInstance(outPath, processOf(
		commandEntry("cat", document.NewScalar(srcPath)),
		commandEntry("save", document.NewScalar("")),
	), srcPath)

	tdb := blueprint.NewTargetDatabase()
	tdb.Matches[outPath] = []*blueprint.TargetMatch{{TargetName: outPath, Blueprint: inst, Dependencies: []string{srcPath}}}
	tdb.Matches[srcPath] = nil

	g, err := Build(tdb, []string{outPath})
	require.NoError(t, err)

	engine := New(Options{Workers: 2})
	require.NoError(t, engine.Run(context.Background(), g))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestEngine_SkipsUpToDateTarget(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(outPath, []byte("stale"), 0o644))

	inst := literalInstance(outPath, processOf(
		commandEntry("save", document.NewScalar("")),
	))

	tdb := blueprint.NewTargetDatabase()
	tdb.Matches[outPath] = []*blueprint.TargetMatch{{TargetName: outPath, Blueprint: inst}}

	g, err := Build(tdb, []string{outPath})
	require.NoError(t, err)

	engine := New(Options{Workers: 1})
	require.NoError(t, engine.Run(context.Background(), g))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "stale", string(data), "a no-dependency node whose target already exists must not re-run")
}

func TestEngine_AbortsOnCommandFailure(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	inst := literalInstance(outPath, processOf(
		commandEntry("execute", document.NewScalar("exit 1")),
	))

	tdb := blueprint.NewTargetDatabase()
	tdb.Matches[outPath] = []*blueprint.TargetMatch{{TargetName: outPath, Blueprint: inst}}

	g, err := Build(tdb, []string{outPath})
	require.NoError(t, err)

	engine := New(Options{Workers: 1})
	err = engine.Run(context.Background(), g)
	assert.Error(t, err)
	assert.True(t, engine.Aborted())
}
