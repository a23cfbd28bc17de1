package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/adapters/cli"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

const recipeYAML = `
cake: {egg: 1, flour: 1, milk: 1, sugar: 1}
pancake: {egg: 1, flour: 1, milk: 1}
`

type fixture struct {
	dir    string
	config string
	data   config.DataConfig
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	data := config.DataConfig{
		RecipePath:             writeFile(t, dir, "recipe.yaml", recipeYAML),
		BuyerDistributionPath:  writeFile(t, dir, "buyer.json", helpers.BuyerDistributionJSON),
		SellerDistributionPath: writeFile(t, dir, "seller.json", helpers.SellerDistributionJSON),
	}

	cfg := "data:\n" +
		"  recipe_path: " + data.RecipePath + "\n" +
		"  buyer_distribution_path: " + data.BuyerDistributionPath + "\n" +
		"  seller_distribution_path: " + data.SellerDistributionPath + "\n" +
		"logging:\n" +
		"  level: error\n" +
		"  output: stderr\n"

	return &fixture{dir: dir, config: writeFile(t, dir, "config.yaml", cfg), data: data}
}

// run executes the CLI with the fixture config and returns stdout
func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", f.config}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

// ============================================================================
// generate
// ============================================================================

func TestGenerate_SeededDrawRepeats(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	first, err := f.run(t, "", "generate", "buyer", "--seed", "42")
	require.NoError(t, err)
	second, err := f.run(t, "", "generate", "human", "--seed", "42")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "{\n  \"cake\": {"), first)

	cake := decode(t, first)["cake"].(map[string]any)
	unitvalue := cake["parameters"].(map[string]any)["unitvalue"].(float64)
	assert.GreaterOrEqual(t, unitvalue, 20.0)
	assert.LessOrEqual(t, unitvalue, 30.0)
}

func TestGenerate_InvalidRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "", "generate", "baker")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid agent role: baker")
}

// ============================================================================
// score / check / optimize
// ============================================================================

func TestScore_FromJSONFile(t *testing.T) {
	f := newFixture(t)
	input := writeFile(t, f.dir, "request.json",
		`{"currencyUnit": "USD", "utility": `+helpers.BuyerUtilityJSON+`, "bundle": `+helpers.ExampleAllocationJSON+`}`)

	out, err := f.run(t, "", "score", "buyer", "--input", input)

	require.NoError(t, err)
	resp := decode(t, out)
	assert.Equal(t, "USD", resp["currencyUnit"])
	assert.InDelta(t, 103.0, resp["value"].(float64), 1e-9)
}

func TestScore_SellerFromYAMLFile(t *testing.T) {
	f := newFixture(t)
	input := writeFile(t, f.dir, "request.yaml", `
currencyUnit: USD
utility:
  cake: {type: unitcost, unit: each, parameters: {unitcost: 8}}
  pancake: {type: unitcost, unit: each, parameters: {unitcost: 3}}
bundle:
  price: 50
  quantity: {cake: 2, pancake: 1}
`)

	out, err := f.run(t, "", "score", "seller", "--input", input)

	require.NoError(t, err)
	assert.Equal(t, 31.0, decode(t, out)["value"])
}

func TestCheck_FromStdin(t *testing.T) {
	f := newFixture(t)
	ingredients, err := json.Marshal(helpers.Ingredients())
	require.NoError(t, err)
	stdin := `{"ingredients": ` + string(ingredients) + `, "allocation": ` + helpers.ExampleAllocationJSON + `}`

	out, err := f.run(t, stdin, "check", "--input", "-")

	require.NoError(t, err)
	resp := decode(t, out)
	assert.Equal(t, false, resp["sufficient"])
	assert.Equal(t, map[string]any{"need": 5.0, "have": 3.0}, resp["rationale"].(map[string]any)["egg"])
}

func TestOptimize_FromTOMLFile(t *testing.T) {
	f := newFixture(t)
	input := writeFile(t, f.dir, "pantry.toml", `
[ingredients]
egg = 3
flour = 3
milk = 3
sugar = 4
chocolate = 6
vanilla = 2
blueberry = 2

[utility.cake]
type = "unitvaluePlusSupplement"
unit = "each"
[utility.cake.parameters]
unitvalue = 25
[utility.cake.parameters.supplement.chocolate]
type = "trapezoid"
unit = "ounce"
parameters = { minQuantity = 3, maxQuantity = 6, minValue = 3, maxValue = 6 }
[utility.cake.parameters.supplement.vanilla]
type = "trapezoid"
unit = "teaspoon"
parameters = { minQuantity = 2, maxQuantity = 4, minValue = 2, maxValue = 4 }

[utility.pancake]
type = "unitvaluePlusSupplement"
unit = "each"
[utility.pancake.parameters]
unitvalue = 10
[utility.pancake.parameters.supplement.chocolate]
type = "trapezoid"
unit = "ounce"
parameters = { minQuantity = 3, maxQuantity = 6, minValue = 3, maxValue = 6 }
[utility.pancake.parameters.supplement.blueberry]
type = "trapezoid"
unit = "packet"
parameters = { minQuantity = 1, maxQuantity = 3, minValue = 1, maxValue = 3 }
`)

	out, err := f.run(t, "", "optimize", "--input", input)

	require.NoError(t, err)
	resp := decode(t, out)
	assert.InDelta(t, 83.0, resp["utility"].(float64), 1e-9)
	assert.Equal(t, false, resp["truncated"])
}

func TestUtilityCommands_InputErrors(t *testing.T) {
	f := newFixture(t)
	broken := writeFile(t, f.dir, "broken.json", `{"ingredients": `)
	unsupported := writeFile(t, f.dir, "request.txt", `{}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input flag", []string{"check"}, `required flag(s) "input" not set`},
		{"missing file", []string{"check", "--input", filepath.Join(f.dir, "absent.json")}, "failed to read input"},
		{"malformed document", []string{"check", "--input", broken}, "invalid input document"},
		{"unsupported extension", []string{"optimize", "--input", unsupported}, "failed to read input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// ============================================================================
// config
// ============================================================================

func TestConfigShow(t *testing.T) {
	f := newFixture(t)

	text, err := f.run(t, "", "config", "show")
	require.NoError(t, err)
	yamlOut, err := f.run(t, "", "config", "show", "--format", "yaml")
	require.NoError(t, err)
	_, err = f.run(t, "", "config", "show", "--format", "xml")

	assert.Contains(t, text, "ANAC Utility Configuration")
	assert.Contains(t, text, f.data.RecipePath)
	assert.Contains(t, yamlOut, "recipe_path: "+f.data.RecipePath)
	assert.Contains(t, yamlOut, "request_timeout: 30s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestConfigShow_VerboseRaisesLevel(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "--verbose", "config", "show", "--format", "yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
}

// ============================================================================
// serve
// ============================================================================

func serveConfig(t *testing.T, f *fixture) *config.Config {
	t.Helper()
	cfg := &config.Config{Data: f.data}
	config.SetDefaults(cfg)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.PIDFile = filepath.Join(f.dir, "run", "utility.pid")
	cfg.Logging.Output = "stderr"
	cfg.Logging.Level = "error"
	return cfg
}

func TestServe_HoldsPIDFileUntilCancelled(t *testing.T) {
	// Arrange
	f := newFixture(t)
	cfg := serveConfig(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- cli.Serve(ctx, cfg, false) }()

	// Assert
	require.Eventually(t, func() bool {
		pid, err := pidfile.New(cfg.Server.PIDFile).Read()
		return err == nil && pid == os.Getpid()
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err := os.Stat(cfg.Server.PIDFile)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestServe_RefusesWhenAnotherServerRuns(t *testing.T) {
	f := newFixture(t)
	cfg := serveConfig(t, f)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Server.PIDFile), 0o755))
	// the parent process stands in for a live server
	require.NoError(t, os.WriteFile(cfg.Server.PIDFile, []byte(strconv.Itoa(os.Getppid())), 0o644))

	err := cli.Serve(context.Background(), cfg, false)

	var running *pidfile.AlreadyRunningError
	require.True(t, errors.As(err, &running))
	assert.Contains(t, err.Error(), "--force")
}

func TestServe_FailsOnMissingData(t *testing.T) {
	f := newFixture(t)
	cfg := serveConfig(t, f)
	cfg.Data.RecipePath = filepath.Join(f.dir, "absent.json")

	err := cli.Serve(context.Background(), cfg, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load data files")
	_, statErr := os.Stat(cfg.Server.PIDFile)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
