package optimizer

import (
	"context"
	"math"
	"sort"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

const budgetEpsilon = 1e-9

// slot is one (product, supplement good) pairing that can fill blocks.
// Every block holds a single item so that it always counts.
type slot struct {
	product   int
	good      string
	shape     *utility.Trapezoid
	minAmount float64
	baseValue float64 // bonus of a block holding minAmount
	headroom  float64 // extra amount a block can absorb at a positive slope
	maxBlocks int
}

// withSupplements adds the best supplement blocks the leftover ingredients
// allow. The decorated allocation is re-checked and the base is kept if it
// does not hold up. When ctx ends mid-search the best blocks found so far are
// used and the context's error is returned alongside them.
func (s *search) withSupplements(base allocation.Allocation, leftover recipe.Ingredients) (allocation.Allocation, error) {
	slots := s.slots(leftover)
	if len(slots) == 0 {
		return base, nil
	}

	plan := newSupplementPlan(s.ctx, slots, s.quantities, leftover)
	searchErr := plan.search(0)
	if plan.bestValue <= 0 {
		return base, searchErr
	}

	full := plan.build(base, s.products)
	check, err := recipe.CheckSufficiency(s.ingredients, full, s.recipe)
	if err != nil || !check.Sufficient {
		return base, searchErr
	}
	return full, searchErr
}

// slots lists the pairings worth considering: the product is being made,
// the supplement good is on hand, and a block of it can earn a positive bonus.
// Amounts stay inside [minQuantity, maxQuantity].
func (s *search) slots(leftover recipe.Ingredients) []slot {
	var out []slot
	for i, p := range s.products {
		units := s.quantities[i]
		if units == 0 || p.spec.Supplement == nil {
			continue
		}
		for _, good := range p.spec.Supplement.Goods() {
			shape, _ := p.spec.Supplement.Get(good)
			available := leftover.Have(good)
			minAmount := math.Max(shape.MinQuantity, 0)
			if available <= 0 || minAmount > shape.MaxQuantity {
				continue
			}
			if math.Max(shape.ValueAt(minAmount), shape.ValueAt(shape.MaxQuantity)) <= 0 {
				continue
			}

			blocks := units
			if minAmount > 0 {
				blocks = utils.Min(blocks, utils.FloorDiv(available, minAmount))
			}
			if blocks == 0 {
				continue
			}

			headroom := 0.0
			if shape.Slope() > 0 {
				headroom = shape.MaxQuantity - minAmount
			}
			out = append(out, slot{
				product:   i,
				good:      good,
				shape:     shape,
				minAmount: minAmount,
				baseValue: shape.ValueAt(minAmount),
				headroom:  headroom,
				maxBlocks: blocks,
			})
		}
	}
	return out
}

// ============================================================================
// Supplement plan
// ============================================================================

// ctxCheckInterval is how many search nodes are visited between context checks
const ctxCheckInterval = 1024

// supplementPlan chooses block counts per slot by branch and bound. For fixed
// counts the leftover of each supplement good is spread over its blocks by
// descending slope, which is optimal because each block's bonus is linear in
// amount. Goods are independent apart from the units they share, so the
// value splits per good and a good's value is exact once all its slots are
// decided.
type supplementPlan struct {
	ctx       context.Context
	slots     []slot
	unitsLeft []int
	budget    map[string]float64

	goods   []string         // traversal order, most valuable block first
	byGood  map[string][]int // slot indices per good by descending slope
	order   []int            // slot indices in traversal order
	posOf   []int            // traversal position of each slot
	lastPos map[string]int   // last traversal position of each good
	supply  map[string]float64
	ratio   map[string]float64 // best bonus per unit of good, +Inf when a block can be free
	peak    map[string]float64 // best bonus of a single block

	counts     []int
	bestCounts []int
	bestExtras []float64
	bestValue  float64
	visited    int
}

func newSupplementPlan(ctx context.Context, slots []slot, quantities []int, leftover recipe.Ingredients) *supplementPlan {
	p := &supplementPlan{
		ctx:        ctx,
		slots:      slots,
		unitsLeft:  append([]int(nil), quantities...),
		budget:     make(map[string]float64),
		byGood:     make(map[string][]int),
		lastPos:    make(map[string]int),
		supply:     make(map[string]float64),
		ratio:      make(map[string]float64),
		peak:       make(map[string]float64),
		counts:     make([]int, len(slots)),
		bestCounts: make([]int, len(slots)),
		bestExtras: make([]float64, len(slots)),
	}

	for i, sl := range slots {
		if _, seen := p.byGood[sl.good]; !seen {
			p.goods = append(p.goods, sl.good)
			p.supply[sl.good] = leftover.Have(sl.good)
			p.budget[sl.good] = leftover.Have(sl.good)
		}
		p.byGood[sl.good] = append(p.byGood[sl.good], i)
		p.peak[sl.good] = math.Max(p.peak[sl.good], sl.peak())
		p.ratio[sl.good] = math.Max(p.ratio[sl.good], sl.ratio())
	}

	sort.SliceStable(p.goods, func(a, b int) bool {
		return p.peak[p.goods[a]] > p.peak[p.goods[b]]
	})
	for _, good := range p.goods {
		idx := p.byGood[good]
		sort.SliceStable(idx, func(a, b int) bool {
			return slots[idx[a]].shape.Slope() > slots[idx[b]].shape.Slope()
		})

		visit := append([]int(nil), idx...)
		sort.SliceStable(visit, func(a, b int) bool {
			return slots[visit[a]].ratio() > slots[visit[b]].ratio()
		})
		p.order = append(p.order, visit...)
		p.lastPos[good] = len(p.order) - 1
	}
	p.posOf = make([]int, len(slots))
	for pos, i := range p.order {
		p.posOf[i] = pos
	}

	return p
}

// peak is the largest bonus one block of the slot can earn
func (sl slot) peak() float64 {
	return math.Max(sl.baseValue, sl.baseValue+sl.headroom*sl.shape.Slope())
}

// ratio is the largest bonus per unit of supplement a block of the slot can
// earn. The bonus is linear in amount, so the best ratio sits at an end of
// the amount range.
func (sl slot) ratio() float64 {
	if sl.minAmount <= 0 {
		return math.Inf(1)
	}
	top := sl.minAmount + sl.headroom
	return math.Max(sl.baseValue/sl.minAmount, sl.peak()/top)
}

// search tries block counts for the slot at traversal position pos, most
// blocks first. It stops with the context's error once ctx is done.
func (p *supplementPlan) search(pos int) error {
	p.visited++
	if p.visited%ctxCheckInterval == 0 {
		if err := p.ctx.Err(); err != nil {
			return err
		}
	}

	if pos == len(p.order) {
		extras := make([]float64, len(p.slots))
		if value := p.value(extras); value > p.bestValue {
			p.bestValue = value
			copy(p.bestCounts, p.counts)
			copy(p.bestExtras, extras)
		}
		return nil
	}
	if p.bound(pos) <= p.bestValue {
		return nil
	}

	i := p.order[pos]
	sl := p.slots[i]
	top := utils.Min(sl.maxBlocks, p.unitsLeft[sl.product])
	if sl.minAmount > 0 {
		top = utils.Min(top, utils.FloorDiv(p.budget[sl.good]+budgetEpsilon, sl.minAmount))
	}

	for k := top; k >= 0; k-- {
		need := float64(k) * sl.minAmount
		p.counts[i] = k
		p.unitsLeft[sl.product] -= k
		p.budget[sl.good] -= need

		err := p.search(pos + 1)

		p.unitsLeft[sl.product] += k
		p.budget[sl.good] += need
		if err != nil {
			p.counts[i] = 0
			return err
		}
	}
	p.counts[i] = 0
	return nil
}

// bound is an upper limit on the value reachable from traversal position
// pos. Goods whose slots are all decided count exactly; the rest are capped
// by the blocks they could still fill and by the supply they hold.
func (p *supplementPlan) bound(pos int) float64 {
	total := 0.0
	for _, good := range p.goods {
		if p.lastPos[good] < pos {
			total += p.goodValue(good, nil)
			continue
		}

		blocks := 0
		for _, i := range p.byGood[good] {
			if p.posOf[i] < pos {
				blocks += p.counts[i]
			} else {
				blocks += utils.Min(p.slots[i].maxBlocks, p.unitsLeft[p.slots[i].product])
			}
		}

		limit := float64(blocks) * p.peak[good]
		if r := p.ratio[good]; !math.IsInf(r, 1) {
			limit = math.Min(limit, p.supply[good]*r)
		}
		total += limit
	}
	return total
}

// value scores the current counts and fills extras with the amount each slot
// receives beyond its minimum
func (p *supplementPlan) value(extras []float64) float64 {
	total := 0.0
	for _, good := range p.goods {
		total += p.goodValue(good, extras)
	}
	return total
}

// goodValue scores the blocks of one good. A non-nil extras records how the
// leftover of the good was spread.
func (p *supplementPlan) goodValue(good string, extras []float64) float64 {
	total := 0.0
	remaining := math.Max(p.budget[good], 0)
	for _, i := range p.byGood[good] {
		k := p.counts[i]
		if k == 0 {
			continue
		}
		sl := p.slots[i]
		total += float64(k) * sl.baseValue
		if sl.headroom <= 0 || remaining <= 0 {
			continue
		}

		take := math.Min(remaining, float64(k)*sl.headroom)
		remaining -= take
		total += take * sl.shape.Slope()
		if extras != nil {
			extras[i] = take
		}
	}
	return total
}

// build appends the chosen blocks to a copy of the base allocation
func (p *supplementPlan) build(base allocation.Allocation, products []product) allocation.Allocation {
	out := allocation.Allocation{Products: make(map[string]allocation.ProductAllocation, len(base.Products))}
	for good, pa := range base.Products {
		out.Products[good] = pa
	}

	for i, sl := range p.slots {
		k := p.bestCounts[i]
		if k == 0 {
			continue
		}
		good := products[sl.product].good
		pa := out.Products[good]

		extra := p.bestExtras[i]
		for j := 0; j < k; j++ {
			add := math.Min(sl.headroom, extra)
			extra -= add
			pa.Supplement = append(pa.Supplement, allocation.NewSupplementBlock(allocation.SupplementItem{
				Good:     sl.good,
				Unit:     sl.shape.Unit,
				Quantity: sl.minAmount + add,
			}))
		}
		out.Products[good] = pa
	}
	return out
}
