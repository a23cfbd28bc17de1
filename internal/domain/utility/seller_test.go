package utility_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

func TestScoreSeller_PriceMinusUnitCosts(t *testing.T) {
	// Arrange
	fn := helpers.SellerUtility(t)
	bundle := helpers.MustDecode[allocation.Allocation](t,
		`{"price": 50, "quantity": {"cake": 2, "pancake": 3}}`)

	// Act
	util, err := utility.ScoreSeller(fn, bundle)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50.0-2*8-3*3, util)
}

func TestScoreSeller_FallsBackToProductQuantities(t *testing.T) {
	fn := helpers.SellerUtility(t)
	bundle := allocation.NewAllocation(map[string]int{"cake": 1})
	bundle.Price = 12

	util, err := utility.ScoreSeller(fn, bundle)

	require.NoError(t, err)
	assert.Equal(t, 4.0, util)
}

func TestScoreSeller_IsLinearInPrice(t *testing.T) {
	fn := helpers.SellerUtility(t)
	bundle := allocation.Allocation{Price: 30, Quantity: map[string]float64{"cake": 1, "pancake": 2}}

	base, err := utility.ScoreSeller(fn, bundle)
	require.NoError(t, err)

	bundle.Price *= 2
	doubled, err := utility.ScoreSeller(fn, bundle)
	require.NoError(t, err)

	assert.Equal(t, base+30, doubled)
}

func TestScoreSeller_IsLinearInQuantity(t *testing.T) {
	fn := helpers.SellerUtility(t)
	one := allocation.Allocation{Price: 100, Quantity: map[string]float64{"cake": 1}}
	three := allocation.Allocation{Price: 100, Quantity: map[string]float64{"cake": 3}}

	u1, err := utility.ScoreSeller(fn, one)
	require.NoError(t, err)
	u3, err := utility.ScoreSeller(fn, three)
	require.NoError(t, err)

	assert.Equal(t, 2*8.0, u1-u3)
}

func TestScoreSeller_MissingUtilityEntry(t *testing.T) {
	fn := helpers.SellerUtility(t)
	bundle := allocation.Allocation{Price: 10, Quantity: map[string]float64{"bagel": 1}}

	_, err := utility.ScoreSeller(fn, bundle)

	var missing *utility.MissingUtilityEntryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "bagel", missing.Good)
}

func TestScoreSeller_EmptyBundleIsPrice(t *testing.T) {
	fn := helpers.SellerUtility(t)

	util, err := utility.ScoreSeller(fn, allocation.Allocation{Price: 7})

	require.NoError(t, err)
	assert.Equal(t, 7.0, util)
}
