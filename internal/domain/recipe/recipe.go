// Package recipe converts product allocations into raw ingredient
// requirements and checks them against what is on hand.
package recipe

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// Recipe maps a product to the quantity of each ingredient needed per unit
type Recipe map[string]map[string]float64

// Ingredients maps an ingredient to the quantity on hand
type Ingredients map[string]float64

// Goods returns the products the recipe covers, in ascending order
func (r Recipe) Goods() []string {
	return utils.SortedKeys(r)
}

// Lookup returns the per-unit ingredients for a product
func (r Recipe) Lookup(good string) (map[string]float64, error) {
	ingredients, ok := r[good]
	if !ok {
		return nil, NewMissingRecipeEntryError(good)
	}
	return ingredients, nil
}

// Validate checks that no per-unit quantity is negative
func (r Recipe) Validate() error {
	for _, good := range r.Goods() {
		for _, ing := range utils.SortedKeys(r[good]) {
			if q := r[good][ing]; q < 0 {
				return shared.NewValidationError(
					fmt.Sprintf("recipe.%s.%s", good, ing),
					fmt.Sprintf("per-unit quantity cannot be negative (got %v)", q),
				)
			}
		}
	}
	return nil
}

// Validate checks that no on-hand quantity is negative
func (i Ingredients) Validate() error {
	for _, ing := range utils.SortedKeys(i) {
		if q := i[ing]; q < 0 {
			return shared.NewValidationError(
				"ingredients."+ing,
				fmt.Sprintf("quantity cannot be negative (got %v)", q),
			)
		}
	}
	return nil
}

// Have returns the on-hand quantity of an ingredient (0 if absent)
func (i Ingredients) Have(ingredient string) float64 {
	return i[ingredient]
}

// Required computes the ingredients an allocation consumes.
//
// Products are converted through the recipe. Supplement quantities are
// already expressed in ingredient units and are added as-is.
func Required(alloc allocation.Allocation, r Recipe) (map[string]float64, error) {
	required := make(map[string]float64)

	for _, good := range alloc.Goods() {
		product := alloc.Products[good]
		perUnit, err := r.Lookup(good)
		if err != nil {
			return nil, err
		}
		for _, ing := range utils.SortedKeys(perUnit) {
			required[ing] += perUnit[ing] * product.Quantity
		}
		for _, block := range product.Supplement {
			for _, item := range block.Items() {
				required[item.Good] += item.Quantity
			}
		}
	}

	return required, nil
}
