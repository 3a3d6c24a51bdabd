// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/config"
	"github.com/anvilbuild/anvil/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	registryFlag   string
	timestampsFlag bool

	// Resolved configuration (loaded during PersistentPreRunE)
	anvilConfig *config.Config
)

// NewRootCmd creates the root command for the anvil CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "anvil",
		Short:         "Anvil component build orchestrator",
		Long:          `anvil resolves a component graph, compiles blueprints, and drives the build engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: ANVIL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&registryFlag, "registry", "", "Default registry URL (env: ANVIL_REGISTRY)")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewRegistryCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	workspaceDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving workspace directory: %w", err)
	}

	loaded, err := config.Load(config.LoaderOptions{
		WorkspaceDir: workspaceDir,
		ConfigFlag:   configFlag,
		RegistryFlag: registryFlag,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	anvilConfig = loaded

	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		output.Debug("initializing CLI",
			"workspace", workspaceDir,
			"registry", anvilConfig.Registry,
			"jobs", anvilConfig.Jobs,
		)
	}

	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return anvilConfig
}

// GetRegistryFlag returns the raw --registry flag value.
func GetRegistryFlag() string {
	return registryFlag
}
