// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// NewListCmd creates the `anvil list` command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every component the workspace database currently knows about",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	workspaceDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}

	cfg := GetConfig()
	roots := []string{workspaceDir}
	if cfg.SharedComponentsDir != "" {
		roots = append(roots, cfg.SharedComponentsDir)
	}

	db := workspace.NewDatabase(roots...)
	if err := db.Rescan(); err != nil {
		return fmt.Errorf("scanning component database: %w", err)
	}

	ids := db.IDs()
	if len(ids) == 0 {
		output.Println("no components found")
		return nil
	}

	table := output.NewTable("ID", "PATH")
	for _, id := range ids {
		path, _ := db.Lookup(id)
		table.Row(id, path)
	}
	output.Println(table.String())

	return nil
}
