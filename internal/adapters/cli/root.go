package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "anac-utility",
		Short: "ANAC bakery utility engine",
		Long: `anac-utility draws, scores and optimizes utility functions for the
ANAC bakery negotiation domain. It can run as an HTTP service or evaluate
single requests from files.

Input files may be JSON, YAML or TOML; "-" reads JSON from stdin.

Examples:
  anac-utility serve --config configs/config.yaml
  anac-utility generate buyer --seed 42
  anac-utility score buyer --input request.yaml
  anac-utility check --input allocation.json
  anac-utility optimize --input pantry.toml
  anac-utility config show --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/anac-utility)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewScoreCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewOptimizeCommand())

	return rootCmd
}

// loadConfig reads configuration honoring the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
