package buildengine

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anvilbuild/anvil/internal/commandlib"
	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/summary"
	"github.com/anvilbuild/anvil/internal/tmpl"
)

// Options configures a build Engine run.
type Options struct {
	Workers        int
	Commands       commandlib.Registry
	Tools          map[string]string
	SummaryData    interface{}
	Previous       *summary.Summary
	Current        *summary.Summary
	OnTaskComplete func(name string, err error)
}

// Engine schedules a task graph's nodes across a bounded worker pool,
// honoring dependency order and a cooperative abort flag (§5).
type Engine struct {
	opts  Options
	abort atomic.Bool
}

// New builds an Engine. Workers below 1 is treated as 1; a nil command
// registry falls back to commandlib.Default().
func New(opts Options) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Commands == nil {
		opts.Commands = commandlib.Default()
	}
	return &Engine{opts: opts}
}

// Aborted reports whether a prior node failure set the global abort flag.
func (e *Engine) Aborted() bool {
	return e.abort.Load()
}

// Run executes every node of g exactly once, in dependency order, until
// all nodes complete or a node fails (setting abort; in-flight work is
// allowed to finish, no new work is started).
func (e *Engine) Run(ctx context.Context, g *Graph) error {
	nodes := g.allNodes()
	total := len(nodes)
	if total == 0 {
		return nil
	}

	remaining := make(map[*Node]*int32, total)
	ready := make(chan *Node, total)
	for _, n := range nodes {
		c := int32(len(n.Predecessors))
		remaining[n] = &c
		if c == 0 {
			ready <- n
		}
	}

	var processed int64
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for n := range ready {
			var err error
			if !e.abort.Load() {
				err = e.runNode(ctx, n)
			}

			if err != nil {
				n.State = StateFailed
				n.Err = err
				e.abort.Store(true)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			} else {
				n.State = StateDone
			}

			if e.opts.OnTaskComplete != nil {
				e.opts.OnTaskComplete(n.Name, err)
			}

			for _, s := range n.Successors {
				if atomic.AddInt32(remaining[s], -1) == 0 {
					ready <- s
				}
			}

			if atomic.AddInt64(&processed, 1) == int64(total) {
				close(ready)
			}
		}
	}

	workers := e.opts.Workers
	if workers > total {
		workers = total
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}
	wg.Wait()

	return firstErr
}

func (e *Engine) runNode(ctx context.Context, n *Node) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if n.Match == nil {
		if n.IsDataDependency() {
			if summary.DataDependencyChanged(n.Name, e.opts.Previous, e.opts.Current) {
				n.LastModified = math.MaxInt64
			} else {
				n.LastModified = math.MinInt64
			}
			return nil
		}
		if info, err := os.Stat(n.Name); err == nil {
			n.LastModified = info.ModTime().UnixNano()
		}
		return nil
	}

	if info, err := os.Stat(n.Name); err == nil {
		n.LastModified = info.ModTime().UnixNano()
	}

	process := n.Match.Blueprint.Process
	if !process.IsSequence() || len(process.Items) == 0 {
		return nil
	}

	if !e.shouldRun(n) {
		return nil
	}

	if err := e.executeProcess(ctx, n); err != nil {
		return err
	}
	n.LastModified = time.Now().UnixNano()
	return nil
}

// shouldRun implements §4.4 step 4: a node with no dependencies runs
// when its target file is absent; a node with dependencies runs when
// the target is absent or a dependency completed more recently than the
// target's own last_modified.
func (e *Engine) shouldRun(n *Node) bool {
	_, statErr := os.Stat(n.Name)
	fileExists := statErr == nil

	if len(n.Predecessors) == 0 {
		return !fileExists
	}
	if !fileExists {
		return true
	}

	maxDep := int64(math.MinInt64)
	for _, p := range n.Predecessors {
		if p.LastModified > maxDep {
			maxDep = p.LastModified
		}
	}
	return maxDep > n.LastModified
}

func (e *Engine) executeProcess(ctx context.Context, n *Node) error {
	engine := tmpl.MatchContext(e.opts.SummaryData, n.Match.Captures, n.Match.Blueprint.ParentDirectory)

	var captured string
	for _, entry := range n.Match.Blueprint.Process.Items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if e.abort.Load() {
			return nil
		}

		keys := entry.Keys()
		if len(keys) == 0 {
			continue
		}
		name := keys[0]
		argsNode := entry.Get(name)

		if toolPath, isTool := e.opts.Tools[name]; isTool {
			out, err := e.runToolCommand(ctx, engine, toolPath, argsNode, n.Name)
			if err != nil {
				return err
			}
			captured = out
			continue
		}

		handler, ok := e.opts.Commands[name]
		if !ok {
			return errors.NewCommandError(n.Name, -1, fmt.Sprintf("unknown command or tool %q", name))
		}

		out, err := handler(commandlib.Context{Target: n.Name, Previous: captured, Engine: engine}, argsNode)
		if err != nil {
			return err
		}
		captured = out
	}

	output.Debug("process complete", "target", n.Name)
	return nil
}

// runToolCommand handles a process entry whose first key names a tool
// from summary.tools rather than a library command: the tool's resolved
// path is concatenated with the rendered argument string and invoked as
// an OS command (§4.4 step on process execution).
func (e *Engine) runToolCommand(ctx context.Context, engine *tmpl.Engine, toolPath string, argsNode *document.Node, target string) (string, error) {
	var argStr string
	if argsNode.IsScalar() {
		rendered, err := engine.Render(argsNode.Scalar)
		if err != nil {
			return "", err
		}
		argStr = rendered
	}

	line := toolPath
	if argStr != "" {
		line = toolPath + " " + argStr
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.NewCommandError(target, exitCodeOf(err), string(out))
	}
	return string(out), nil
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
