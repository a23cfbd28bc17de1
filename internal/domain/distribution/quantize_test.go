package distribution_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
)

func hasAtMostDecimals(v float64, decimals int32) bool {
	scaled := v * math.Pow10(int(decimals))
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestDecimalsFor(t *testing.T) {
	assert.Equal(t, int32(0), distribution.DecimalsFor("minQuantity"))
	assert.Equal(t, int32(0), distribution.DecimalsFor("maxQuantity"))
	assert.Equal(t, int32(2), distribution.DecimalsFor("quantity"))
	assert.Equal(t, int32(2), distribution.DecimalsFor("unitvalue"))
	assert.Equal(t, int32(2), distribution.DecimalsFor(""))
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo, hi   float64
		decimals int32
		want     float64
	}{
		{"rounds half up", 2.5, 0, 10, 0, 3},
		{"rounds negative half up", -2.5, -10, 10, 0, -2},
		{"rounds negative below half down", -2.51, -10, 10, 0, -3},
		{"negative half at two decimals", -1.125, -10, 10, 2, -1.12},
		{"rounds down below half", 2.49, 0, 10, 0, 2},
		{"two decimals", 3.14159, 0, 10, 2, 3.14},
		{"no floating point drift", 1.005, 0, 10, 2, 1.01},
		{"clamped to upper bound", 4.6, 1, 4.6, 0, 4},
		{"clamped to lower bound", 1.2, 1.2, 3, 0, 2},
		{"exact bound kept", 6, 2, 6, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distribution.Quantize(tt.value, tt.lo, tt.hi, tt.decimals)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuantize_StaysInRangeWithPrecision(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))

	for i := 0; i < 2000; i++ {
		lo := math.Round(rng.Float64()*2000-1000) / 100
		hi := lo + 1 + float64(rng.IntN(500))/10
		for _, decimals := range []int32{0, 2} {
			draw := lo + rng.Float64()*(hi-lo)

			got := distribution.Quantize(draw, lo, hi, decimals)

			assert.GreaterOrEqual(t, got, lo, "draw %v in [%v, %v]", draw, lo, hi)
			assert.LessOrEqual(t, got, hi, "draw %v in [%v, %v]", draw, lo, hi)
			assert.True(t, hasAtMostDecimals(got, decimals), "%v has more than %d decimals", got, decimals)
		}
	}
}

func TestInstantiate_DrawsStayInRange(t *testing.T) {
	spec, err := distribution.ParseSpec([]byte(`{"cake": {"type": "unitvaluePlusSupplement", "unit": "each",
	  "parameters": {"unitvalue": [10.25, 10.75], "supplement": {"chocolate": {"type": "trapezoid", "unit": "ounce",
	    "parameters": {"minQuantity": [1.5, 3.5], "maxQuantity": [4, 6], "minValue": [0.1, 0.2], "maxValue": [1, 2]}}}}}}`))
	assert.NoError(t, err)

	for seed := uint64(0); seed < 200; seed++ {
		draw, err := distribution.Instantiate(spec, distribution.NewSource(seed))
		if !assert.NoError(t, err) {
			return
		}
		cake, err := draw.Utility.UnitValueFor("cake")
		if !assert.NoError(t, err) {
			return
		}
		choc, _ := cake.SupplementFor("chocolate")

		assert.True(t, cake.Value >= 10.25 && cake.Value <= 10.75)
		assert.True(t, hasAtMostDecimals(cake.Value, 2))
		assert.Contains(t, []float64{2, 3}, choc.MinQuantity)
		assert.True(t, hasAtMostDecimals(choc.MaxQuantity, 0))
	}
}
