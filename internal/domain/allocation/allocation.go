// Package allocation models the bundles that buyers and sellers evaluate:
// baked products with optional per-unit supplements, plus the flat
// good→quantity map used by seller bundles.
package allocation

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// DefaultUnit is the unit label used for whole baked products
const DefaultUnit = "each"

// ProductAllocation is the quantity of one primary good in an allocation
type ProductAllocation struct {
	Unit       string            `json:"unit,omitempty"`
	Quantity   float64           `json:"quantity"`
	Supplement []SupplementBlock `json:"supplement,omitempty"`
}

// HasSupplement reports whether the product carried a supplement list,
// even an empty one.
func (p ProductAllocation) HasSupplement() bool {
	return p.Supplement != nil
}

// Allocation is a concrete assignment of product and supplement quantities.
//
// Buyers evaluate Products; sellers evaluate Price against Quantity (or,
// when Quantity is empty, against the product quantities).
type Allocation struct {
	Cost     float64                      `json:"cost,omitempty"`
	Price    float64                      `json:"price,omitempty"`
	Products map[string]ProductAllocation `json:"products,omitempty"`
	Quantity map[string]float64           `json:"quantity,omitempty"`
}

// NewAllocation creates an allocation of whole products with no supplements
func NewAllocation(quantities map[string]int) Allocation {
	products := make(map[string]ProductAllocation, len(quantities))
	for good, q := range quantities {
		products[good] = ProductAllocation{Unit: DefaultUnit, Quantity: float64(q)}
	}
	return Allocation{Products: products}
}

// Goods returns the product goods in ascending order
func (a Allocation) Goods() []string {
	return utils.SortedKeys(a.Products)
}

// SellerQuantities returns the good→quantity map a seller is charged for
func (a Allocation) SellerQuantities() map[string]float64 {
	if len(a.Quantity) > 0 {
		return a.Quantity
	}
	quantities := make(map[string]float64, len(a.Products))
	for good, p := range a.Products {
		quantities[good] = p.Quantity
	}
	return quantities
}

// Validate checks that every quantity in the allocation is non-negative
func (a Allocation) Validate() error {
	for _, good := range a.Goods() {
		p := a.Products[good]
		if p.Quantity < 0 {
			return shared.NewValidationError(
				fmt.Sprintf("products.%s.quantity", good),
				fmt.Sprintf("quantity cannot be negative (got %v)", p.Quantity),
			)
		}
		for i, block := range p.Supplement {
			for _, item := range block.items {
				if item.Quantity < 0 {
					return shared.NewValidationError(
						fmt.Sprintf("products.%s.supplement[%d].%s.quantity", good, i, item.Good),
						fmt.Sprintf("quantity cannot be negative (got %v)", item.Quantity),
					)
				}
			}
		}
	}
	for _, good := range utils.SortedKeys(a.Quantity) {
		if q := a.Quantity[good]; q < 0 {
			return shared.NewValidationError(
				fmt.Sprintf("quantity.%s", good),
				fmt.Sprintf("quantity cannot be negative (got %v)", q),
			)
		}
	}
	return nil
}
