// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anvilbuild/anvil/internal/output"
)

// registryEntry is the on-disk shape of a `.yakka/registries/<name>.yaml`
// index file. Only the URL is parsed and recorded; no network fetch
// happens here.
type registryEntry struct {
	URL string `yaml:"url"`
}

// NewRegistryCmd creates the `anvil registry` command group.
func NewRegistryCmd() *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage registry index entries",
	}

	registryCmd.AddCommand(&cobra.Command{
		Use:   "add <url>",
		Short: "Record a registry index entry under .yakka/registries",
		Args:  cobra.ExactArgs(1),
		RunE:  runRegistryAdd,
	})

	return registryCmd
}

func runRegistryAdd(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid registry url %q", rawURL)
	}

	workspaceDir, err := filepath.Abs(".")
	if err != nil {
		return err
	}

	registriesDir := filepath.Join(workspaceDir, ".yakka", "registries")
	if err := os.MkdirAll(registriesDir, 0o755); err != nil {
		return fmt.Errorf("creating registries directory: %w", err)
	}

	name := parsed.Host
	entryPath := filepath.Join(registriesDir, name+".yaml")

	data, err := yaml.Marshal(registryEntry{URL: rawURL})
	if err != nil {
		return err
	}
	if err := os.WriteFile(entryPath, data, 0o644); err != nil {
		return fmt.Errorf("writing registry entry: %w", err)
	}

	output.Info("registry entry recorded", "name", name, "path", entryPath)
	return nil
}
