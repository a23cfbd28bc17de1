package utility

import (
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// ScoreSeller returns the seller's profit on a bundle:
// price minus the unit cost of every good sold.
func ScoreSeller(fn Function, bundle allocation.Allocation) (float64, error) {
	quantities := bundle.SellerQuantities()

	util := bundle.Price
	for _, good := range utils.SortedKeys(quantities) {
		spec, err := fn.UnitCostFor(good)
		if err != nil {
			return 0, err
		}
		util -= spec.Cost * quantities[good]
	}
	return util, nil
}
