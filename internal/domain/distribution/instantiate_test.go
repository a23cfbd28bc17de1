package distribution_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

// fixedSource returns the same draw every time
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func mustParse(t *testing.T, data string) *distribution.Spec {
	t.Helper()
	spec, err := distribution.ParseSpec([]byte(data))
	require.NoError(t, err)
	return spec
}

func TestInstantiate_BuyerSpecProducesValidUtility(t *testing.T) {
	// Arrange
	spec := mustParse(t, helpers.BuyerDistributionJSON)

	// Act
	draw, err := distribution.Instantiate(spec, distribution.NewSource(42))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"cake", "pancake"}, draw.Utility.Goods())
	assert.NotEqual(t, uuid.Nil, draw.ID)

	cake, err := draw.Utility.UnitValueFor("cake")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cake.Value, 20.0)
	assert.LessOrEqual(t, cake.Value, 30.0)
	assert.Equal(t, []string{"chocolate", "vanilla"}, cake.Supplement.Goods())

	choc, ok := cake.SupplementFor("chocolate")
	require.True(t, ok)
	assert.Equal(t, math.Trunc(choc.MinQuantity), choc.MinQuantity)
	assert.Equal(t, "ounce", choc.Unit)
}

func TestInstantiate_LowerBoundDraw(t *testing.T) {
	spec := mustParse(t, helpers.SellerDistributionJSON)

	draw, err := distribution.Instantiate(spec, fixedSource(0))

	require.NoError(t, err)
	cost, err := draw.Utility.UnitCostFor("cake")
	require.NoError(t, err)
	assert.Equal(t, 6.0, cost.Cost)
}

func TestInstantiate_MidpointDraw(t *testing.T) {
	spec := mustParse(t, `{"cake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": [1, 2]}}}`)

	draw, err := distribution.Instantiate(spec, fixedSource(0.5))

	require.NoError(t, err)
	cost, err := draw.Utility.UnitCostFor("cake")
	require.NoError(t, err)
	assert.Equal(t, 1.5, cost.Cost)
}

func TestInstantiate_SameSeedSameDraw(t *testing.T) {
	spec := mustParse(t, helpers.BuyerDistributionJSON)

	a, err := distribution.Instantiate(spec, distribution.NewSource(7))
	require.NoError(t, err)
	b, err := distribution.Instantiate(spec, distribution.NewSource(7))
	require.NoError(t, err)

	rawA, err := json.Marshal(a.Raw)
	require.NoError(t, err)
	rawB, err := json.Marshal(b.Raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(rawA), string(rawB))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestInstantiate_RenamesDistributionToUtility(t *testing.T) {
	// Arrange
	spec := mustParse(t, `{
	  "name": "baker",
	  "distribution": {
	    "cake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": [4, 4]}}
	  }
	}`)

	// Act
	draw, err := distribution.Instantiate(spec, fixedSource(0.3))

	// Assert
	require.NoError(t, err)
	raw, err := json.Marshal(draw.Raw)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"baker","utility":{"cake":{"type":"unitcost","unit":"each","parameters":{"unitcost":4}}}}`,
		string(raw))
	assert.Nil(t, draw.Raw.Get("distribution"))

	cost, err := draw.Utility.UnitCostFor("cake")
	require.NoError(t, err)
	assert.Equal(t, 4.0, cost.Cost)
}

func TestInstantiate_RawKeepsSpecOrder(t *testing.T) {
	spec := mustParse(t, helpers.BuyerDistributionJSON)

	draw, err := distribution.Instantiate(spec, distribution.NewSource(1))

	require.NoError(t, err)
	names := make([]string, 0)
	for _, f := range draw.Raw.Get("cake").Get("parameters").Get("supplement").Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"chocolate", "vanilla"}, names)
}

func TestInstantiate_DoesNotMutateSpec(t *testing.T) {
	spec := mustParse(t, helpers.SellerDistributionJSON)
	before, err := json.Marshal(spec)
	require.NoError(t, err)

	_, err = distribution.Instantiate(spec, distribution.NewSource(3))
	require.NoError(t, err)

	after, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

// sequenceSource replays its draws in order
type sequenceSource struct {
	draws []float64
	next  int
}

func (s *sequenceSource) Float64() float64 {
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

func trapezoidSpec(minQuantity, maxQuantity string) string {
	return `{"cake": {"type": "unitvaluePlusSupplement", "unit": "each", "parameters": {
	  "unitvalue": [1, 1],
	  "supplement": {"vanilla": {"type": "trapezoid", "unit": "teaspoon",
	    "parameters": {"minQuantity": ` + minQuantity + `, "maxQuantity": ` + maxQuantity + `, "minValue": [0, 0], "maxValue": [1, 1]}}}}}}`
}

func TestInstantiate_OverlappingQuantityRangesAlwaysDecode(t *testing.T) {
	spec := mustParse(t, trapezoidSpec("[1, 4]", "[2, 5]"))

	for seed := uint64(0); seed < 500; seed++ {
		draw, err := distribution.Instantiate(spec, distribution.NewSource(seed))
		require.NoError(t, err, "seed %d", seed)

		cake, err := draw.Utility.UnitValueFor("cake")
		require.NoError(t, err)
		vanilla, ok := cake.SupplementFor("vanilla")
		require.True(t, ok)
		assert.LessOrEqual(t, vanilla.MinQuantity, vanilla.MaxQuantity, "seed %d", seed)
		assert.True(t, vanilla.MinQuantity >= 1 && vanilla.MinQuantity <= 4, "seed %d", seed)
		assert.True(t, vanilla.MaxQuantity >= 2 && vanilla.MaxQuantity <= 5, "seed %d", seed)
	}
}

func TestInstantiate_OrdersCrossedQuantityDraws(t *testing.T) {
	tests := []struct {
		name               string
		minRange, maxRange string
		minDraw, maxDraw   float64
		wantMin, wantMax   float64
	}{
		// 4 and 2 are drawn; 4 fits the maxQuantity range
		{"raises maximum", "[1, 4]", "[2, 5]", 0.9, 0, 4, 4},
		// 6 and 3 are drawn; 3 fits the minQuantity range
		{"lowers minimum", "[3, 6]", "[1, 4]", 0.9, 0.6, 3, 3},
		// 8 and 1 are drawn; neither fits the other range
		{"meets at shared value", "[3, 10]", "[1, 5]", 0.7, 0.1, 3, 3},
		{"ordered draws kept", "[1, 4]", "[2, 5]", 0, 0.9, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := mustParse(t, trapezoidSpec(tt.minRange, tt.maxRange))
			// unitvalue, minQuantity, maxQuantity, minValue, maxValue
			source := &sequenceSource{draws: []float64{0, tt.minDraw, tt.maxDraw, 0, 0}}

			draw, err := distribution.Instantiate(spec, source)

			require.NoError(t, err)
			cake, err := draw.Utility.UnitValueFor("cake")
			require.NoError(t, err)
			vanilla, _ := cake.SupplementFor("vanilla")
			assert.Equal(t, tt.wantMin, vanilla.MinQuantity)
			assert.Equal(t, tt.wantMax, vanilla.MaxQuantity)
		})
	}
}

func TestParseSpec_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"bare number", `{"cake": {"parameters": {"unitcost": 4}}}`, "$.cake.parameters.unitcost"},
		{"three element range", `{"cake": {"unitcost": [1, 2, 3]}}`, "$.cake.unitcost"},
		{"string range", `{"cake": {"unitcost": ["1", "2"]}}`, "$.cake.unitcost"},
		{"inverted range", `{"cake": {"unitcost": [3, 1]}}`, "$.cake.unitcost"},
		{"null member", `{"cake": null}`, "$.cake"},
		{"boolean", `{"cake": true}`, "$.cake"},
		{"root array", `[1, 2]`, "$"},
		{"duplicate key", `{"cake": {"unit": "a", "unit": "b"}}`, "$.cake"},
		{"maxQuantity below minQuantity", trapezoidSpec("[5, 5]", "[1, 2]"), "$.cake.parameters.supplement.vanilla.parameters.maxQuantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := distribution.ParseSpec([]byte(tt.data))

			var malformed *distribution.MalformedDistributionSpecError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.path, malformed.Path)
		})
	}
}

func TestInstantiate_BothDistributionAndUtilityPresent(t *testing.T) {
	spec := mustParse(t, `{"utility": {}, "distribution": {}}`)

	_, err := distribution.Instantiate(spec, fixedSource(0))

	var malformed *distribution.MalformedDistributionSpecError
	require.True(t, errors.As(err, &malformed))
}
