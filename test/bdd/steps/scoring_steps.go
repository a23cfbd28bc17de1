package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

type scoringContext struct {
	fn    utility.Function
	alloc allocation.Allocation
	score *utility.BuyerScore
	value float64
	err   error
}

func (sc *scoringContext) reset() {
	sc.fn = nil
	sc.alloc = allocation.Allocation{}
	sc.score = nil
	sc.value = 0
	sc.err = nil
}

// Given steps

func (sc *scoringContext) theExampleBuyerUtility() error {
	fn, err := utility.ParseFunction([]byte(helpers.BuyerUtilityJSON))
	if err != nil {
		return err
	}
	sc.fn = fn
	return nil
}

func (sc *scoringContext) theUtilityFunction(doc *godog.DocString) error {
	fn, err := utility.ParseFunction([]byte(doc.Content))
	if err != nil {
		return err
	}
	sc.fn = fn
	return nil
}

func (sc *scoringContext) aSellerUtilityWithUnitCosts(table *godog.Table) error {
	costs, err := tableQuantities(table, "good", "unitcost")
	if err != nil {
		return err
	}
	sc.fn = utility.Function{}
	for good, cost := range costs {
		sc.fn[good] = &utility.UnitCost{Unit: allocation.DefaultUnit, Cost: cost}
	}
	return nil
}

func (sc *scoringContext) theExampleAllocation() error {
	alloc, err := decodeAllocation(helpers.ExampleAllocationJSON)
	if err != nil {
		return err
	}
	sc.alloc = alloc
	return nil
}

func (sc *scoringContext) theAllocation(doc *godog.DocString) error {
	alloc, err := decodeAllocation(doc.Content)
	if err != nil {
		return err
	}
	sc.alloc = alloc
	return nil
}

func (sc *scoringContext) aBundlePricedWithQuantities(price float64, table *godog.Table) error {
	quantities, err := tableQuantities(table, "good", "quantity")
	if err != nil {
		return err
	}
	sc.alloc = allocation.Allocation{Price: price, Quantity: quantities}
	return nil
}

// When steps

func (sc *scoringContext) iScoreTheAllocationAsABuyer() error {
	sc.score, sc.err = utility.ScoreBuyer(sc.fn, sc.alloc)
	if sc.err == nil {
		sc.value = sc.score.TotalUtility
	}
	return nil
}

func (sc *scoringContext) iScoreTheBundleAsASeller() error {
	sc.value, sc.err = utility.ScoreSeller(sc.fn, sc.alloc)
	return nil
}

// Then steps

func (sc *scoringContext) theUtilityShouldBe(expected float64) error {
	if sc.err != nil {
		return fmt.Errorf("expected a score, got error: %v", sc.err)
	}
	if !approxEqual(sc.value, expected) {
		return fmt.Errorf("expected utility %v, got %v", expected, sc.value)
	}
	return nil
}

func (sc *scoringContext) theBreakdownForShouldBe(good string, expected float64) error {
	if sc.score == nil {
		return fmt.Errorf("no buyer score available")
	}
	entry, ok := sc.score.Breakdown[good]
	if !ok {
		return fmt.Errorf("no breakdown for %q", good)
	}
	if !approxEqual(entry.Utility, expected) {
		return fmt.Errorf("expected base utility %v for %s, got %v", expected, good, entry.Utility)
	}
	return nil
}

func (sc *scoringContext) scoringShouldFailWithAMissingUtilityEntryFor(good string) error {
	var missing *utility.MissingUtilityEntryError
	if !errors.As(sc.err, &missing) {
		return fmt.Errorf("expected a missing utility entry error, got %v", sc.err)
	}
	if missing.Good != good {
		return fmt.Errorf("expected missing entry for %q, got %q", good, missing.Good)
	}
	return nil
}

func InitializeScoringScenario(ctx *godog.ScenarioContext) {
	sc := &scoringContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the example buyer utility$`, sc.theExampleBuyerUtility)
	ctx.Step(`^the utility function:$`, sc.theUtilityFunction)
	ctx.Step(`^a seller utility with unit costs:$`, sc.aSellerUtilityWithUnitCosts)
	ctx.Step(`^the example allocation$`, sc.theExampleAllocation)
	ctx.Step(`^the allocation:$`, sc.theAllocation)
	ctx.Step(`^a bundle priced (-?[0-9.]+) with quantities:$`, sc.aBundlePricedWithQuantities)

	// When steps
	ctx.Step(`^I score the allocation as a buyer$`, sc.iScoreTheAllocationAsABuyer)
	ctx.Step(`^I score the bundle as a seller$`, sc.iScoreTheBundleAsASeller)

	// Then steps
	ctx.Step(`^the utility should be (-?[0-9.]+)$`, sc.theUtilityShouldBe)
	ctx.Step(`^the base utility of "([^"]*)" should be (-?[0-9.]+)$`, sc.theBreakdownForShouldBe)
	ctx.Step(`^scoring should fail with a missing utility entry for "([^"]*)"$`, sc.scoringShouldFailWithAMissingUtilityEntryFor)
}
