// Package optimizer searches for the feasible allocation a buyer values most.
//
// Product quantities are enumerated by backtracking over every candidate
// good. Each feasible base allocation is then decorated with the supplement
// blocks that earn the largest bonus from the ingredients left over, and
// the full allocation is scored with the buyer scorer.
package optimizer

import (
	"context"
	"errors"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// DefaultMaxQuantityPerGood caps each good when Options leaves it unset
const DefaultMaxQuantityPerGood = 50

// Options bound the search space
type Options struct {
	// MaxQuantityPerGood caps each good on top of its ingredient bound
	MaxQuantityPerGood int
	// MaxEvaluations stops the search after this many base allocations; 0 is unbounded
	MaxEvaluations int
}

// Result is the best allocation found
type Result struct {
	Allocation allocation.Allocation            `json:"allocation"`
	Utility    float64                          `json:"utility"`
	Breakdown  map[string]utility.GoodBreakdown `json:"breakdown"`
	Bounds     map[string]int                   `json:"bounds"`
	Evaluated  int                              `json:"evaluated"`
	Truncated  bool                             `json:"truncated"`
}

// Optimizer finds the utility-maximizing allocation an inventory can realize
type Optimizer struct {
	opts Options
}

// New creates an optimizer with the given options
func New(opts Options) *Optimizer {
	if opts.MaxQuantityPerGood <= 0 {
		opts.MaxQuantityPerGood = DefaultMaxQuantityPerGood
	}
	if opts.MaxEvaluations < 0 {
		opts.MaxEvaluations = 0
	}
	return &Optimizer{opts: opts}
}

// Options returns the effective options
func (o *Optimizer) Options() Options {
	return o.opts
}

var errBudgetExhausted = errors.New("evaluation budget exhausted")

// product is a candidate good with the spec that values it
type product struct {
	good string
	spec *utility.UnitValue
}

// Optimize returns the best feasible allocation of the goods that appear in
// both the recipe and the utility function.
//
// The all-zero allocation is the baseline, so a result is always returned
// unless an input is invalid or ctx ends before anything was scored. When
// ctx ends mid-search the best allocation so far is returned with Truncated
// set. Ties keep the allocation found first, with goods enumerated in
// ascending order and quantities ascending.
func (o *Optimizer) Optimize(ctx context.Context, ingredients recipe.Ingredients, r recipe.Recipe, fn utility.Function) (*Result, error) {
	if err := ingredients.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	products, err := candidates(r, fn)
	if err != nil {
		return nil, err
	}

	s := &search{
		ctx:            ctx,
		ingredients:    ingredients,
		recipe:         r,
		fn:             fn,
		products:       products,
		bounds:         make([]int, len(products)),
		quantities:     make([]int, len(products)),
		maxEvaluations: o.opts.MaxEvaluations,
	}
	bounds := make(map[string]int, len(products))
	for i, p := range products {
		s.bounds[i] = UpperBound(ingredients, r[p.good], o.opts.MaxQuantityPerGood)
		bounds[p.good] = s.bounds[i]
	}

	if err := s.walk(0); err != nil {
		switch {
		case errors.Is(err, errBudgetExhausted):
		case isContextError(err) && s.best != nil:
			s.truncated = true
		default:
			return nil, err
		}
	}
	if s.best == nil {
		for i := range s.quantities {
			s.quantities[i] = 0
		}
		s.bestAlloc = s.baseAllocation()
		if s.best, err = utility.ScoreBuyer(fn, s.bestAlloc); err != nil {
			return nil, err
		}
	}

	return &Result{
		Allocation: s.bestAlloc,
		Utility:    s.best.TotalUtility,
		Breakdown:  s.best.Breakdown,
		Bounds:     bounds,
		Evaluated:  s.evaluated,
		Truncated:  s.truncated,
	}, nil
}

// UpperBound is the most units of a product the inventory can make: the
// minimum over its ingredients of floor(onHand / perUnit), capped at limit.
// Ingredients with a non-positive per-unit quantity do not bound it.
func UpperBound(ingredients recipe.Ingredients, perUnit map[string]float64, limit int) int {
	bound := limit
	for _, ing := range utils.SortedKeys(perUnit) {
		need := perUnit[ing]
		if need <= 0 {
			continue
		}
		bound = utils.Min(bound, utils.FloorDiv(ingredients.Have(ing), need))
	}
	return bound
}

func candidates(r recipe.Recipe, fn utility.Function) ([]product, error) {
	var out []product
	for _, good := range r.Goods() {
		if _, ok := fn[good]; !ok {
			continue
		}
		spec, err := fn.UnitValueFor(good)
		if err != nil {
			return nil, err
		}
		out = append(out, product{good: good, spec: spec})
	}
	return out, nil
}

// ============================================================================
// Search
// ============================================================================

type search struct {
	ctx         context.Context
	ingredients recipe.Ingredients
	recipe      recipe.Recipe
	fn          utility.Function

	products   []product
	bounds     []int
	quantities []int

	maxEvaluations int
	evaluated      int
	truncated      bool

	best      *utility.BuyerScore
	bestAlloc allocation.Allocation
}

// walk enumerates quantities for products[i:] with earlier goods fixed.
// Sufficiency is monotone in quantity, so the first infeasible quantity
// ends the loop for this good.
func (s *search) walk(i int) error {
	if i == len(s.products) {
		return s.evaluate()
	}

	for q := 0; q <= s.bounds[i]; q++ {
		s.quantities[i] = q
		if q > 0 {
			check, err := recipe.CheckSufficiency(s.ingredients, s.baseAllocation(), s.recipe)
			if err != nil {
				return err
			}
			if !check.Sufficient {
				break
			}
		}
		if err := s.walk(i + 1); err != nil {
			return err
		}
	}
	s.quantities[i] = 0
	return nil
}

func (s *search) evaluate() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if s.maxEvaluations > 0 && s.evaluated >= s.maxEvaluations {
		s.truncated = true
		return errBudgetExhausted
	}
	s.evaluated++

	base := s.baseAllocation()
	check, err := recipe.CheckSufficiency(s.ingredients, base, s.recipe)
	if err != nil {
		return err
	}
	if !check.Sufficient {
		return nil
	}

	full, searchErr := s.withSupplements(base, check.Leftover())
	score, err := utility.ScoreBuyer(s.fn, full)
	if err != nil {
		return err
	}
	if s.best == nil || score.TotalUtility > s.best.TotalUtility {
		s.best = score
		s.bestAlloc = full
	}
	return searchErr
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *search) baseAllocation() allocation.Allocation {
	products := make(map[string]allocation.ProductAllocation, len(s.products))
	for i, p := range s.products {
		unit := p.spec.Unit
		if unit == "" {
			unit = allocation.DefaultUnit
		}
		products[p.good] = allocation.ProductAllocation{
			Unit:     unit,
			Quantity: float64(s.quantities[i]),
		}
	}
	return allocation.Allocation{Products: products}
}
