package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the effective configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (ANAC_* prefix, plus PORT)
2. Config file (config.yaml)
3. Default values

Examples:
  anac-utility config show
  anac-utility config show --format yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				return enc.Close()
			case "text":
				printConfig(cmd.OutOrStdout(), cfg)
				return nil
			default:
				return fmt.Errorf("unknown format %q (expected text or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "ANAC Utility Configuration")
	fmt.Fprintln(w, "==========================")

	fmt.Fprintln(w, "\nServer:")
	fmt.Fprintf(w, "  Address:          %s\n", cfg.Server.Address())
	fmt.Fprintf(w, "  Request Timeout:  %s\n", cfg.Server.RequestTimeout)
	fmt.Fprintf(w, "  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)
	fmt.Fprintf(w, "  Max Body Bytes:   %d\n", cfg.Server.MaxBodyBytes)
	fmt.Fprintf(w, "  Rate Limit:       %d req/s (burst %d)\n", cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
	if cfg.Server.PIDFile != "" {
		fmt.Fprintf(w, "  PID File:         %s\n", cfg.Server.PIDFile)
	}

	fmt.Fprintln(w, "\nData:")
	fmt.Fprintf(w, "  Recipe:              %s\n", cfg.Data.RecipePath)
	fmt.Fprintf(w, "  Buyer Distribution:  %s\n", cfg.Data.BuyerDistributionPath)
	fmt.Fprintf(w, "  Seller Distribution: %s\n", cfg.Data.SellerDistributionPath)

	fmt.Fprintln(w, "\nLogging:")
	fmt.Fprintf(w, "  Level:  %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Format: %s\n", cfg.Logging.Format)
	fmt.Fprintf(w, "  Output: %s\n", cfg.Logging.Output)

	fmt.Fprintln(w, "\nMetrics:")
	fmt.Fprintf(w, "  Enabled:   %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(w, "  Path:      %s\n", cfg.Metrics.Path)
	fmt.Fprintf(w, "  Namespace: %s\n", cfg.Metrics.Namespace)

	fmt.Fprintln(w, "\nOptimizer:")
	fmt.Fprintf(w, "  Max Quantity Per Good: %d\n", cfg.Optimizer.MaxQuantityPerGood)
	fmt.Fprintf(w, "  Max Evaluations:       %d\n", cfg.Optimizer.MaxEvaluations)
	fmt.Fprintf(w, "  Timeout:               %s\n", cfg.Optimizer.Timeout)
}
