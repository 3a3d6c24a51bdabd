// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/blueprint"
	"github.com/anvilbuild/anvil/internal/buildengine"
	oerrors "github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/resolver"
	"github.com/anvilbuild/anvil/internal/summary"
	"github.com/anvilbuild/anvil/internal/workspace"
)

var (
	refreshFlag   bool
	noEvalFlag    bool
	fetchFlag     bool
	jobsFlag      int
	outputDirFlag string
)

// NewBuildCmd creates the `anvil build` command.
func NewBuildCmd() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build <component...> [+feature...] <command>!...",
		Short: "Resolve components, compile blueprints, and run the build engine",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBuild,
	}

	buildCmd.Flags().BoolVar(&refreshFlag, "refresh", false, "Rescan the component database before resolving")
	buildCmd.Flags().BoolVar(&noEvalFlag, "no-eval", false, "Skip dependency and choice evaluation, loading only the named components")
	buildCmd.Flags().BoolVar(&fetchFlag, "fetch", false, "Attempt to fetch unknown components (stub)")
	buildCmd.Flags().IntVar(&jobsFlag, "jobs", 0, "Worker pool size (default: number of CPUs)")
	buildCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "Build output directory")

	return buildCmd
}

// buildArgs is the parsed form of `<component...> [+feature...] <command!...>`.
type buildArgs struct {
	components []string
	features   []string
	commands   []string
}

func parseBuildArgs(args []string) buildArgs {
	var parsed buildArgs
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "+"):
			parsed.features = append(parsed.features, strings.TrimPrefix(a, "+"))
		case strings.HasSuffix(a, "!"):
			parsed.commands = append(parsed.commands, strings.TrimSuffix(a, "!"))
		default:
			parsed.components = append(parsed.components, a)
		}
	}
	return parsed
}

func runBuild(cmd *cobra.Command, args []string) error {
	parsed := parseBuildArgs(args)
	if len(parsed.commands) == 0 {
		return fmt.Errorf("build requires at least one command target, suffixed with '!'")
	}

	cfg := GetConfig()
	workspaceDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}

	outputDir := cfg.OutputDir
	if outputDirFlag != "" {
		outputDir = outputDirFlag
	}

	jobs := cfg.Jobs
	if jobsFlag > 0 {
		jobs = jobsFlag
	}
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	roots := []string{workspaceDir}
	if cfg.SharedComponentsDir != "" {
		roots = append(roots, cfg.SharedComponentsDir)
	}
	db := workspace.NewDatabase(roots...)
	if err := db.Rescan(); err != nil {
		return fmt.Errorf("scanning component database: %w", err)
	}
	if refreshFlag {
		if err := db.Rescan(); err != nil {
			return fmt.Errorf("refreshing component database: %w", err)
		}
	}

	projectName := filepath.Base(workspaceDir)

	if fetchFlag {
		output.Debug("--fetch set, but no registry fetch backend is wired up; relying on the workspace scan only")
	}

	result, err := resolveComponents(db, parsed)
	if err != nil {
		return fmt.Errorf("resolving components: %w", err)
	}

	userConfig := map[string]interface{}{
		"registry":              cfg.Registry,
		"jobs":                  jobs,
		"shared_components_dir": cfg.SharedComponentsDir,
		"output_dir":            outputDir,
	}

	sum := summary.Build(result, projectName, outputDir, parsed.components, parsed.features, summary.Configuration{
		HostOS:        runtime.GOOS,
		ExecutableExt: executableExt(),
		UserConfig:    userConfig,
	})

	previous, err := summary.Load(outputDir, projectName)
	if err != nil {
		output.Warn("failed to load previous summary", "error", err)
	}

	summaryDoc, err := sum.AsDocument()
	if err != nil {
		return fmt.Errorf("building project summary document: %w", err)
	}

	tools, err := blueprint.ExpandTools(result.Components, summaryDoc)
	if err != nil {
		return fmt.Errorf("expanding tool templates: %w", err)
	}
	sum.Tools = tools

	summaryDoc, err = sum.AsDocument()
	if err != nil {
		return fmt.Errorf("building project summary document: %w", err)
	}

	bpDB, err := blueprint.Compile(result.Components, summaryDoc)
	if err != nil {
		return fmt.Errorf("compiling blueprints: %w", err)
	}

	tdb, err := blueprint.Close(bpDB, summaryDoc.ToInterface(), parsed.commands)
	if err != nil {
		return fmt.Errorf("closing target database: %w", err)
	}

	graph, err := buildengine.Build(tdb, parsed.commands)
	if err != nil {
		return fmt.Errorf("building task graph: %w", err)
	}

	var taskErrors []error
	engine := buildengine.New(buildengine.Options{
		Workers:     jobs,
		Tools:       tools,
		SummaryData: summaryDoc.ToInterface(),
		Previous:    previous,
		Current:     sum,
		OnTaskComplete: func(name string, err error) {
			if err != nil {
				taskErrors = append(taskErrors, fmt.Errorf("%s: %w", name, err))
				output.Error("target failed", "target", name, "error", err)
			} else {
				output.Debug("target complete", "target", name)
			}
		},
	})

	runErr := output.RunWithSpinner(cmd.Context(), func() error {
		return engine.Run(cmd.Context(), graph)
	}, output.WithTitle(fmt.Sprintf("Building %s...", sum.ProjectName)))

	if err := sum.Save(outputDir); err != nil {
		output.Warn("failed to persist project summary", "error", err)
	}

	if verboseFlag {
		writeVerboseBuildResult(sum, tdb, taskErrors)
	}

	if runErr != nil {
		return fmt.Errorf("build aborted: %w", runErr)
	}
	if len(taskErrors) > 0 {
		return fmt.Errorf("%d target(s) failed", len(taskErrors))
	}

	output.Info("build complete", "project", sum.ProjectName, "output", sum.ProjectOutput)
	return nil
}

// resolveComponents runs the resolver's fixed-point closure, unless
// --no-eval is set, in which case the initial selection is used as-is
// with no requires/choice expansion: each named component is loaded
// directly and nothing else is pulled in.
func resolveComponents(db *workspace.Database, parsed buildArgs) (*resolver.Result, error) {
	if !noEvalFlag {
		return resolver.New(db, parsed.components, parsed.features).Resolve()
	}

	loaded := map[string]*manifest.Manifest{}
	for _, id := range parsed.components {
		m, err := db.Load(id)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, oerrors.NewUnknownComponentError(id)
		}
		loaded[id] = m
	}

	return &resolver.Result{
		RequiredComponents: parsed.components,
		RequiredFeatures:   parsed.features,
		Components:         loaded,
		Choices:            map[string]*resolver.Choice{},
		Replacements:       map[string]string{},
	}, nil
}

func executableExt() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func writeVerboseBuildResult(sum *summary.Summary, tdb *blueprint.TargetDatabase, taskErrors []error) {
	matches := map[string][]output.MatchInfo{}
	var unmatched []string
	for name, ms := range tdb.Matches {
		if len(ms) == 0 {
			unmatched = append(unmatched, name)
			continue
		}
		for _, m := range ms {
			blueprintName := "filesystem"
			if m.Blueprint != nil {
				blueprintName = m.Blueprint.Pattern.Value
			}
			matches[name] = append(matches[name], output.MatchInfo{Blueprint: blueprintName})
		}
	}

	info := &output.BuildResultInfo{
		ProjectName:       sum.ProjectName,
		ProjectComponents: sum.Initial.Components,
		ProjectFeatures:   sum.Initial.Features,
		Matches:           matches,
		Unmatched:         unmatched,
		Errors:            taskErrors,
	}

	if err := output.WriteVerboseResult(info, output.VerboseOptions{Writer: os.Stdout}); err != nil {
		output.Warn("failed to render verbose build result", "error", err)
	}
}
