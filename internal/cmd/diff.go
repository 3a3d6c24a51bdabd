// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/resolver"
	"github.com/anvilbuild/anvil/internal/summary"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// NewDiffCmd creates the `anvil diff` command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <component...> [+feature...]",
		Short: "Show what a fresh resolve would change against the last persisted project summary",
		RunE:  runDiff,
	}
	cmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "Build output directory")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	outputDir := cfg.OutputDir
	if outputDirFlag != "" {
		outputDir = outputDirFlag
	}

	workspaceDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}
	projectName := filepath.Base(workspaceDir)

	previous, err := summary.Load(outputDir, projectName)
	if err != nil {
		return fmt.Errorf("loading previous summary: %w", err)
	}
	if previous == nil {
		output.Println(fmt.Sprintf("no previous summary at %s; nothing to diff against", summary.Path(outputDir, projectName)))
		return nil
	}

	parsed := parseBuildArgs(args)
	initialComponents, initialFeatures := parsed.components, parsed.features
	if len(initialComponents) == 0 {
		initialComponents = previous.Initial.Components
	}
	if len(initialFeatures) == 0 {
		initialFeatures = previous.Initial.Features
	}

	roots := []string{workspaceDir}
	if cfg.SharedComponentsDir != "" {
		roots = append(roots, cfg.SharedComponentsDir)
	}
	db := workspace.NewDatabase(roots...)
	if err := db.Rescan(); err != nil {
		return fmt.Errorf("scanning component database: %w", err)
	}

	res := resolver.New(db, initialComponents, initialFeatures)
	result, err := res.Resolve()
	if err != nil {
		return fmt.Errorf("resolving components: %w", err)
	}

	current := summary.Build(result, projectName, outputDir, initialComponents, initialFeatures, summary.Configuration{
		HostOS:        runtime.GOOS,
		ExecutableExt: executableExt(),
		UserConfig:    previous.Configuration.UserConfig,
	})

	prevJSON, err := previous.JSON()
	if err != nil {
		return err
	}
	currJSON, err := current.JSON()
	if err != nil {
		return err
	}

	diff, err := output.CompareProjectSummaries(prevJSON, currJSON)
	if err != nil {
		return fmt.Errorf("comparing summaries: %w", err)
	}

	if diff.IsEmpty() {
		output.Println("no differences")
		return nil
	}

	renderer := output.NewDiffRenderer()
	if len(diff.Added) > 0 {
		output.Println(renderer.RenderAddedHeader())
		for _, a := range diff.Added {
			output.Println(renderer.RenderAdded(a))
		}
	}
	if len(diff.Removed) > 0 {
		output.Println(renderer.RenderRemovedHeader())
		for _, r := range diff.Removed {
			output.Println(renderer.RenderRemoved(r))
		}
	}
	if len(diff.Modified) > 0 {
		output.Println(renderer.RenderModifiedHeader())
		for _, m := range diff.Modified {
			output.Println(renderer.RenderModified(m.Name))
		}
	}

	return nil
}
