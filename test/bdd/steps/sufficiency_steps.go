package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

type sufficiencyContext struct {
	recipe      recipe.Recipe
	ingredients recipe.Ingredients
	alloc       allocation.Allocation
	result      *recipe.Sufficiency
	err         error
}

func (sc *sufficiencyContext) reset() {
	sc.recipe = nil
	sc.ingredients = nil
	sc.alloc = allocation.Allocation{}
	sc.result = nil
	sc.err = nil
}

// Given steps

func (sc *sufficiencyContext) theBakeryRecipe() error {
	sc.recipe = helpers.Recipe()
	return nil
}

func (sc *sufficiencyContext) aPantryWith(table *godog.Table) error {
	quantities, err := tableQuantities(table, "ingredient", "quantity")
	if err != nil {
		return err
	}
	sc.ingredients = recipe.Ingredients(quantities)
	return nil
}

// When steps

func (sc *sufficiencyContext) iCheckAnAllocationOf(table *godog.Table) error {
	quantities, err := tableQuantities(table, "good", "quantity")
	if err != nil {
		return err
	}
	products := make(map[string]allocation.ProductAllocation, len(quantities))
	for good, q := range quantities {
		products[good] = allocation.ProductAllocation{Unit: allocation.DefaultUnit, Quantity: q}
	}
	sc.alloc = allocation.Allocation{Products: products}
	sc.result, sc.err = recipe.CheckSufficiency(sc.ingredients, sc.alloc, sc.recipe)
	return nil
}

func (sc *sufficiencyContext) iCheckTheAllocation(doc *godog.DocString) error {
	alloc, err := decodeAllocation(doc.Content)
	if err != nil {
		return err
	}
	sc.alloc = alloc
	sc.result, sc.err = recipe.CheckSufficiency(sc.ingredients, sc.alloc, sc.recipe)
	return nil
}

// Then steps

func (sc *sufficiencyContext) requireResult() error {
	if sc.err != nil {
		return fmt.Errorf("expected a sufficiency result, got error: %v", sc.err)
	}
	if sc.result == nil {
		return fmt.Errorf("no sufficiency result available")
	}
	return nil
}

func (sc *sufficiencyContext) theAllocationShouldBeSufficient() error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if !sc.result.Sufficient {
		return fmt.Errorf("expected allocation to be sufficient, shortfalls: %v", sc.result.Shortfalls())
	}
	return nil
}

func (sc *sufficiencyContext) theAllocationShouldNotBeSufficient() error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.Sufficient {
		return fmt.Errorf("expected allocation to be insufficient, but it was sufficient")
	}
	return nil
}

func (sc *sufficiencyContext) theRationaleForShouldNeedAndHave(ingredient string, need, have float64) error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	req, ok := sc.result.Rationale[ingredient]
	if !ok {
		return fmt.Errorf("no rationale for %q", ingredient)
	}
	if !approxEqual(req.Need, need) || !approxEqual(req.Have, have) {
		return fmt.Errorf("expected %s need %v have %v, got need %v have %v", ingredient, need, have, req.Need, req.Have)
	}
	return nil
}

func (sc *sufficiencyContext) theShortIngredientsShouldBe(table *godog.Table) error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	expected, err := tableQuantities(table, "ingredient", "missing")
	if err != nil {
		return err
	}

	shortfalls := sc.result.Shortfalls()
	if len(shortfalls) != len(expected) {
		return fmt.Errorf("expected %d shortfalls, got %v", len(expected), shortfalls)
	}
	for _, s := range shortfalls {
		want, ok := expected[s.Ingredient]
		if !ok {
			return fmt.Errorf("unexpected shortfall for %q", s.Ingredient)
		}
		if !approxEqual(s.Missing, want) {
			return fmt.Errorf("expected %s to be short by %v, got %v", s.Ingredient, want, s.Missing)
		}
	}
	return nil
}

func (sc *sufficiencyContext) theCheckShouldFailWithAMissingRecipeEntryFor(good string) error {
	var missing *recipe.MissingRecipeEntryError
	if !errors.As(sc.err, &missing) {
		return fmt.Errorf("expected a missing recipe entry error, got %v", sc.err)
	}
	if missing.Good != good {
		return fmt.Errorf("expected missing recipe for %q, got %q", good, missing.Good)
	}
	return nil
}

func InitializeSufficiencyScenario(ctx *godog.ScenarioContext) {
	sc := &sufficiencyContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the bakery recipe$`, sc.theBakeryRecipe)
	ctx.Step(`^a pantry with:$`, sc.aPantryWith)

	// When steps
	ctx.Step(`^I check an allocation of:$`, sc.iCheckAnAllocationOf)
	ctx.Step(`^I check the allocation:$`, sc.iCheckTheAllocation)

	// Then steps
	ctx.Step(`^the allocation should be sufficient$`, sc.theAllocationShouldBeSufficient)
	ctx.Step(`^the allocation should not be sufficient$`, sc.theAllocationShouldNotBeSufficient)
	ctx.Step(`^the rationale for "([^"]*)" should need ([0-9.]+) and have ([0-9.]+)$`, sc.theRationaleForShouldNeedAndHave)
	ctx.Step(`^the short ingredients should be:$`, sc.theShortIngredientsShouldBe)
	ctx.Step(`^the check should fail with a missing recipe entry for "([^"]*)"$`, sc.theCheckShouldFailWithAMissingRecipeEntryFor)
}
