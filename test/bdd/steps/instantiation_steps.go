package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

type instantiationContext struct {
	spec     *distribution.Spec
	draw     *distribution.Draw
	previous []byte
	err      error
}

func (ic *instantiationContext) reset() {
	ic.spec = nil
	ic.draw = nil
	ic.previous = nil
	ic.err = nil
}

// Given steps

func (ic *instantiationContext) theBuyerDistribution() error {
	spec, err := distribution.ParseSpec([]byte(helpers.BuyerDistributionJSON))
	if err != nil {
		return err
	}
	ic.spec = spec
	return nil
}

func (ic *instantiationContext) theSellerDistribution() error {
	spec, err := distribution.ParseSpec([]byte(helpers.SellerDistributionJSON))
	if err != nil {
		return err
	}
	ic.spec = spec
	return nil
}

func (ic *instantiationContext) iParseTheDistribution(doc *godog.DocString) error {
	ic.spec, ic.err = distribution.ParseSpec([]byte(doc.Content))
	return nil
}

// When steps

func (ic *instantiationContext) iInstantiateItWithSeed(seed int) error {
	if ic.spec == nil {
		return fmt.Errorf("no distribution spec available")
	}
	if ic.draw != nil {
		raw, err := json.Marshal(ic.draw.Raw)
		if err != nil {
			return err
		}
		ic.previous = raw
	}
	ic.draw, ic.err = distribution.Instantiate(ic.spec, distribution.NewSource(uint64(seed)))
	return nil
}

// Then steps

func (ic *instantiationContext) requireDraw() error {
	if ic.err != nil {
		return fmt.Errorf("expected a draw, got error: %v", ic.err)
	}
	if ic.draw == nil {
		return fmt.Errorf("no draw available")
	}
	return nil
}

func (ic *instantiationContext) theUnitValueOfShouldLieBetween(good string, lo, hi float64) error {
	if err := ic.requireDraw(); err != nil {
		return err
	}
	spec, err := ic.draw.Utility.UnitValueFor(good)
	if err != nil {
		return err
	}
	if spec.Value < lo || spec.Value > hi {
		return fmt.Errorf("expected %s unit value in [%v, %v], got %v", good, lo, hi, spec.Value)
	}
	if !hasDecimals(spec.Value, 2) {
		return fmt.Errorf("expected %s unit value to keep at most 2 decimals, got %v", good, spec.Value)
	}
	return nil
}

func (ic *instantiationContext) theUnitCostOfShouldLieBetween(good string, lo, hi float64) error {
	if err := ic.requireDraw(); err != nil {
		return err
	}
	spec, err := ic.draw.Utility.UnitCostFor(good)
	if err != nil {
		return err
	}
	if spec.Cost < lo || spec.Cost > hi {
		return fmt.Errorf("expected %s unit cost in [%v, %v], got %v", good, lo, hi, spec.Cost)
	}
	return nil
}

func (ic *instantiationContext) theSupplementQuantitiesOfShouldBeWholeNumbers(good, supplement string) error {
	if err := ic.requireDraw(); err != nil {
		return err
	}
	spec, err := ic.draw.Utility.UnitValueFor(good)
	if err != nil {
		return err
	}
	trapezoid, ok := spec.SupplementFor(supplement)
	if !ok {
		return fmt.Errorf("%s has no %s supplement", good, supplement)
	}
	if !hasDecimals(trapezoid.MinQuantity, 0) || !hasDecimals(trapezoid.MaxQuantity, 0) {
		return fmt.Errorf("expected whole quantities, got %v and %v", trapezoid.MinQuantity, trapezoid.MaxQuantity)
	}
	return nil
}

func (ic *instantiationContext) bothDrawsShouldBeIdentical() error {
	if err := ic.requireDraw(); err != nil {
		return err
	}
	raw, err := json.Marshal(ic.draw.Raw)
	if err != nil {
		return err
	}
	if string(raw) != string(ic.previous) {
		return fmt.Errorf("expected identical draws:\n%s\n%s", ic.previous, raw)
	}
	return nil
}

func (ic *instantiationContext) theSpecShouldBeRejectedAsMalformedAt(path string) error {
	var malformed *distribution.MalformedDistributionSpecError
	if !errors.As(ic.err, &malformed) {
		return fmt.Errorf("expected a malformed spec error, got %v", ic.err)
	}
	if malformed.Path != path {
		return fmt.Errorf("expected malformed path %s, got %s", path, malformed.Path)
	}
	return nil
}

func hasDecimals(v float64, decimals int) bool {
	scaled := v * math.Pow(10, float64(decimals))
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func InitializeInstantiationScenario(ctx *godog.ScenarioContext) {
	ic := &instantiationContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		ic.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the buyer distribution$`, ic.theBuyerDistribution)
	ctx.Step(`^the seller distribution$`, ic.theSellerDistribution)
	ctx.Step(`^I parse the distribution:$`, ic.iParseTheDistribution)

	// When steps
	ctx.Step(`^I instantiate it with seed (\d+)$`, ic.iInstantiateItWithSeed)

	// Then steps
	ctx.Step(`^the unit value of "([^"]*)" should lie between ([0-9.]+) and ([0-9.]+)$`, ic.theUnitValueOfShouldLieBetween)
	ctx.Step(`^the unit cost of "([^"]*)" should lie between ([0-9.]+) and ([0-9.]+)$`, ic.theUnitCostOfShouldLieBetween)
	ctx.Step(`^the "([^"]*)" supplement quantities of "([^"]*)" should be whole numbers$`,
		func(supplement, good string) error {
			return ic.theSupplementQuantitiesOfShouldBeWholeNumbers(good, supplement)
		})
	ctx.Step(`^both draws should be identical$`, ic.bothDrawsShouldBeIdentical)
	ctx.Step(`^the spec should be rejected as malformed at "([^"]*)"$`, ic.theSpecShouldBeRejectedAsMalformedAt)
}
