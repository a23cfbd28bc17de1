package utility

import (
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
)

// MaxExtrasPerBlock is how many supplement goods in one block may contribute
const MaxExtrasPerBlock = 1

// SupplementAttempt records one supplement good considered while scoring a block
type SupplementAttempt struct {
	Good     string  `json:"good"`
	Quantity float64 `json:"quantity"` // effective quantity after the over-supply rule
	Utility  float64 `json:"utility"`
	Applied  bool    `json:"applied"`
}

// GoodBreakdown explains the utility contributed by one primary good
type GoodBreakdown struct {
	Quantity   float64             `json:"quantity"`
	Utility    float64             `json:"utility"`
	Supplement []SupplementAttempt `json:"supplement,omitempty"`
}

// BuyerScore is the result of scoring an allocation for a buyer
type BuyerScore struct {
	TotalUtility float64                  `json:"totalUtility"`
	Breakdown    map[string]GoodBreakdown `json:"breakdown"`
}

// ScoreBuyer scores an allocation against a buyer's utility function.
//
// Each product contributes unitvalue*quantity. Each supplement block then
// adds the trapezoid bonus of its first member only; later members are
// recorded in the breakdown with Applied=false. A member with no trapezoid
// in the spec contributes zero but still takes the block's slot.
func ScoreBuyer(fn Function, alloc allocation.Allocation) (*BuyerScore, error) {
	score := &BuyerScore{Breakdown: make(map[string]GoodBreakdown, len(alloc.Products))}

	for _, good := range alloc.Goods() {
		product := alloc.Products[good]
		spec, err := fn.UnitValueFor(good)
		if err != nil {
			return nil, err
		}

		base := spec.Value * product.Quantity
		score.TotalUtility += base
		entry := GoodBreakdown{Quantity: product.Quantity, Utility: base}

		if product.HasSupplement() {
			entry.Supplement = []SupplementAttempt{}
			for _, block := range product.Supplement {
				bonus, attempts := scoreBlock(spec, block)
				score.TotalUtility += bonus
				entry.Supplement = append(entry.Supplement, attempts...)
			}
		}

		score.Breakdown[good] = entry
	}

	return score, nil
}

// scoreBlock returns the applied bonus for one block and every attempt made
func scoreBlock(spec *UnitValue, block allocation.SupplementBlock) (float64, []SupplementAttempt) {
	var (
		bonus    float64
		extras   int
		attempts = make([]SupplementAttempt, 0, block.Len())
	)

	for _, item := range block.Items() {
		attempt := SupplementAttempt{Good: item.Good}
		if t, ok := spec.SupplementFor(item.Good); ok {
			attempt.Quantity, attempt.Utility = t.Bonus(item.Quantity)
		}

		if extras < MaxExtrasPerBlock {
			attempt.Applied = true
			bonus += attempt.Utility
			extras++
		}
		attempts = append(attempts, attempt)
	}

	return bonus, attempts
}
