package helpers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// BuyerUtilityJSON is the buyer utility used throughout the bakery examples
const BuyerUtilityJSON = `{
  "cake": {
    "type": "unitvaluePlusSupplement",
    "unit": "each",
    "parameters": {
      "unitvalue": 25,
      "supplement": {
        "chocolate": {"type": "trapezoid", "unit": "ounce",
          "parameters": {"minQuantity": 3, "maxQuantity": 6, "minValue": 3, "maxValue": 6}},
        "vanilla": {"type": "trapezoid", "unit": "teaspoon",
          "parameters": {"minQuantity": 2, "maxQuantity": 4, "minValue": 2, "maxValue": 4}}
      }
    }
  },
  "pancake": {
    "type": "unitvaluePlusSupplement",
    "unit": "each",
    "parameters": {
      "unitvalue": 10,
      "supplement": {
        "chocolate": {"type": "trapezoid", "unit": "ounce",
          "parameters": {"minQuantity": 3, "maxQuantity": 6, "minValue": 3, "maxValue": 6}},
        "blueberry": {"type": "trapezoid", "unit": "packet",
          "parameters": {"minQuantity": 1, "maxQuantity": 3, "minValue": 1, "maxValue": 3}}
      }
    }
  }
}`

// SellerUtilityJSON is a seller utility over the same products
const SellerUtilityJSON = `{
  "cake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": 8}},
  "pancake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": 3}}
}`

// ExampleAllocationJSON has three cakes and two pancakes with mixed supplement blocks
const ExampleAllocationJSON = `{
  "cost": 20,
  "products": {
    "cake": {
      "unit": "each",
      "quantity": 3,
      "supplement": [
        {"chocolate": {"unit": "ounce", "quantity": 2}, "vanilla": {"unit": "teaspoon", "quantity": 2}},
        {"chocolate": {"unit": "ounce", "quantity": 3}},
        {"vanilla": {"unit": "teaspoon", "quantity": 1}}
      ]
    },
    "pancake": {
      "unit": "each",
      "quantity": 2,
      "supplement": [
        {"blueberry": {"unit": "packet", "quantity": 2}},
        {}
      ]
    }
  }
}`

// BuyerDistributionJSON is a buyer distribution spec shaped like BuyerUtilityJSON
const BuyerDistributionJSON = `{
  "cake": {
    "type": "unitvaluePlusSupplement",
    "unit": "each",
    "parameters": {
      "unitvalue": [20, 30],
      "supplement": {
        "chocolate": {"type": "trapezoid", "unit": "ounce",
          "parameters": {"minQuantity": [2, 4], "maxQuantity": [5, 7], "minValue": [2, 4], "maxValue": [5, 7]}},
        "vanilla": {"type": "trapezoid", "unit": "teaspoon",
          "parameters": {"minQuantity": [1, 2], "maxQuantity": [3, 4], "minValue": [1, 3], "maxValue": [3, 5]}}
      }
    }
  },
  "pancake": {
    "type": "unitvaluePlusSupplement",
    "unit": "each",
    "parameters": {
      "unitvalue": [8, 12],
      "supplement": {
        "blueberry": {"type": "trapezoid", "unit": "packet",
          "parameters": {"minQuantity": [1, 1], "maxQuantity": [2, 3], "minValue": [0.5, 1.5], "maxValue": [2, 4]}}
      }
    }
  }
}`

// SellerDistributionJSON is a seller distribution spec over the same products
const SellerDistributionJSON = `{
  "cake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": [6, 10]}},
  "pancake": {"type": "unitcost", "unit": "each", "parameters": {"unitcost": [2, 4]}}
}`

// BuyerUtility returns the example buyer utility function
func BuyerUtility(t testing.TB) utility.Function {
	t.Helper()
	fn, err := utility.ParseFunction([]byte(BuyerUtilityJSON))
	require.NoError(t, err)
	return fn
}

// SellerUtility returns the example seller utility function
func SellerUtility(t testing.TB) utility.Function {
	t.Helper()
	fn, err := utility.ParseFunction([]byte(SellerUtilityJSON))
	require.NoError(t, err)
	return fn
}

// ExampleAllocation returns the example allocation
func ExampleAllocation(t testing.TB) allocation.Allocation {
	t.Helper()
	return MustDecode[allocation.Allocation](t, ExampleAllocationJSON)
}

// Recipe returns the bakery recipe: every product takes one egg, flour and
// milk per unit, and cakes also take a unit of sugar.
func Recipe() recipe.Recipe {
	return recipe.Recipe{
		"cake":    {"egg": 1, "flour": 1, "milk": 1, "sugar": 1},
		"pancake": {"egg": 1, "flour": 1, "milk": 1},
	}
}

// Ingredients returns the example pantry
func Ingredients() recipe.Ingredients {
	return recipe.Ingredients{
		"egg":       3,
		"flour":     3,
		"milk":      3,
		"sugar":     4,
		"chocolate": 6,
		"vanilla":   2,
		"blueberry": 2,
	}
}

// MustDecode decodes JSON into a value of type T, failing the test on error
func MustDecode[T any](t testing.TB, data string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	return v
}
