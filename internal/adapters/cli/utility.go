package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/commands"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/queries"
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/catalog"
)

// Input documents, shaped like the HTTP request bodies

type scoreInput struct {
	CurrencyUnit string                `json:"currencyUnit"`
	Utility      utility.Function      `json:"utility"`
	Bundle       allocation.Allocation `json:"bundle"`
}

type checkInput struct {
	Ingredients recipe.Ingredients    `json:"ingredients"`
	Allocation  allocation.Allocation `json:"allocation"`
}

type optimizeInput struct {
	Ingredients recipe.Ingredients `json:"ingredients"`
	Utility     utility.Function   `json:"utility"`
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate <buyer|seller>",
		Short: "Draw a utility function for a role",
		Long: `Draw a utility function from the role's distribution and print it.

Examples:
  anac-utility generate buyer
  anac-utility generate seller --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generate := &commands.GenerateUtilityCommand{Role: args[0]}
			if cmd.Flags().Changed("seed") {
				generate.Seed = &seed
			}

			resp, err := send(cmd, generate)
			if err != nil {
				return err
			}

			generated := resp.(*commands.GenerateUtilityResponse)
			return printJSON(cmd.OutOrStdout(), generated.Raw)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible draw")

	return cmd
}

// NewScoreCommand creates the score command
func NewScoreCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "score <buyer|seller>",
		Short: "Score a bundle under a utility function",
		Long: `Score a bundle. The input document holds "utility", "bundle" and an
optional "currencyUnit".

Example:
  anac-utility score buyer --input request.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc scoreInput
			if err := readInput(cmd, input, &doc); err != nil {
				return err
			}

			resp, err := send(cmd, &queries.CalculateUtilityQuery{
				Role:         args[0],
				CurrencyUnit: doc.CurrencyUnit,
				Utility:      doc.Utility,
				Bundle:       doc.Bundle,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	addInputFlag(cmd, &input)

	return cmd
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether ingredients cover an allocation",
		Long: `Check an allocation against a pantry using the configured recipe. The
input document holds "ingredients" and "allocation".

Example:
  anac-utility check --input allocation.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc checkInput
			if err := readInput(cmd, input, &doc); err != nil {
				return err
			}

			resp, err := send(cmd, &queries.CheckAllocationQuery{
				Ingredients: doc.Ingredients,
				Allocation:  doc.Allocation,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	addInputFlag(cmd, &input)

	return cmd
}

// NewOptimizeCommand creates the optimize command
func NewOptimizeCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the best allocation a pantry can cover",
		Long: `Search for the feasible allocation with the highest utility. The input
document holds "ingredients" and "utility".

Example:
  anac-utility optimize --input pantry.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc optimizeInput
			if err := readInput(cmd, input, &doc); err != nil {
				return err
			}

			resp, err := send(cmd, &queries.OptimizeAllocationQuery{
				Ingredients: doc.Ingredients,
				Utility:     doc.Utility,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	addInputFlag(cmd, &input)

	return cmd
}

// ============================================================================
// Helpers
// ============================================================================

func addInputFlag(cmd *cobra.Command, input *string) {
	cmd.Flags().StringVarP(input, "input", "i", "", `Input file (.json, .yaml, .yml, .toml) or "-" for JSON on stdin`)
	_ = cmd.MarkFlagRequired("input")
}

// send builds a runtime for a single request and dispatches it. Logs go to
// stderr so stdout carries only the result.
func send(cmd *cobra.Command, request mediator.Request) (mediator.Response, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	cfg.Metrics.Enabled = false

	rt, err := NewRuntime(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rt.Close() }()

	return rt.Mediator.Send(cmd.Context(), request)
}

// readInput decodes the input document into v
func readInput(cmd *cobra.Command, path string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = catalog.ReadAsJSON(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid input document: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
