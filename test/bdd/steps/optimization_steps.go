package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/anac-utility-go/internal/application/mediator"
	"github.com/andrescamacho/anac-utility-go/internal/application/setup"
	"github.com/andrescamacho/anac-utility-go/internal/application/utility/queries"
	"github.com/andrescamacho/anac-utility-go/internal/domain/optimizer"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/catalog"
	"github.com/andrescamacho/anac-utility-go/test/helpers"
)

type optimizationContext struct {
	ingredients    recipe.Ingredients
	fn             utility.Function
	maxEvaluations int
	recorder       *helpers.MockRecorder
	response       *queries.OptimizeAllocationResponse
	err            error
}

func (oc *optimizationContext) reset() {
	oc.ingredients = recipe.Ingredients{}
	oc.fn = nil
	oc.maxEvaluations = 0
	oc.recorder = helpers.NewMockRecorder()
	oc.response = nil
	oc.err = nil
}

func (oc *optimizationContext) newMediator() (mediator.Mediator, error) {
	cat := catalog.New(helpers.Recipe(), nil, nil)
	opt := optimizer.New(optimizer.Options{MaxEvaluations: oc.maxEvaluations})
	return setup.NewHandlerRegistry(cat, oc.recorder, opt, time.Minute).CreateConfiguredMediator()
}

// Given steps

func (oc *optimizationContext) theExamplePantry() error {
	oc.ingredients = helpers.Ingredients()
	return nil
}

func (oc *optimizationContext) anOptimizerPantryWith(table *godog.Table) error {
	quantities, err := tableQuantities(table, "ingredient", "quantity")
	if err != nil {
		return err
	}
	oc.ingredients = recipe.Ingredients(quantities)
	return nil
}

func (oc *optimizationContext) theBuyerUtilityToOptimize() error {
	fn, err := utility.ParseFunction([]byte(helpers.BuyerUtilityJSON))
	if err != nil {
		return err
	}
	oc.fn = fn
	return nil
}

func (oc *optimizationContext) anEvaluationBudgetOf(budget int) error {
	oc.maxEvaluations = budget
	return nil
}

// When steps

func (oc *optimizationContext) iOptimizeTheAllocation() error {
	med, err := oc.newMediator()
	if err != nil {
		return err
	}

	resp, err := med.Send(context.Background(), &queries.OptimizeAllocationQuery{
		Ingredients: oc.ingredients,
		Utility:     oc.fn,
	})
	oc.err = err
	if err == nil {
		oc.response = resp.(*queries.OptimizeAllocationResponse)
	}
	return nil
}

// Then steps

func (oc *optimizationContext) requireResponse() error {
	if oc.err != nil {
		return fmt.Errorf("expected an optimization result, got error: %v", oc.err)
	}
	if oc.response == nil {
		return fmt.Errorf("no optimization result available")
	}
	return nil
}

func (oc *optimizationContext) theBestUtilityShouldBe(expected float64) error {
	if err := oc.requireResponse(); err != nil {
		return err
	}
	if !approxEqual(oc.response.Utility, expected) {
		return fmt.Errorf("expected best utility %v, got %v", expected, oc.response.Utility)
	}
	return nil
}

func (oc *optimizationContext) theOptimalAllocationShouldBeFeasible() error {
	if err := oc.requireResponse(); err != nil {
		return err
	}
	result, err := recipe.CheckSufficiency(oc.ingredients, oc.response.Allocation, helpers.Recipe())
	if err != nil {
		return err
	}
	if !result.Sufficient {
		return fmt.Errorf("optimal allocation is not feasible, shortfalls: %v", result.Shortfalls())
	}
	return nil
}

func (oc *optimizationContext) theOptimalAllocationShouldMake(table *godog.Table) error {
	if err := oc.requireResponse(); err != nil {
		return err
	}
	expected, err := tableQuantities(table, "good", "quantity")
	if err != nil {
		return err
	}
	for good, want := range expected {
		got := oc.response.Allocation.Products[good].Quantity
		if !approxEqual(got, want) {
			return fmt.Errorf("expected %v %s, got %v", want, good, got)
		}
	}
	return nil
}

func (oc *optimizationContext) theSearchShouldBeTruncated() error {
	if err := oc.requireResponse(); err != nil {
		return err
	}
	if !oc.response.Truncated {
		return fmt.Errorf("expected the search to be truncated after %d evaluations", oc.response.Evaluated)
	}
	if oc.recorder.Truncations != 1 {
		return fmt.Errorf("expected 1 recorded truncation, got %d", oc.recorder.Truncations)
	}
	return nil
}

func (oc *optimizationContext) theSearchShouldBeComplete() error {
	if err := oc.requireResponse(); err != nil {
		return err
	}
	if oc.response.Truncated {
		return fmt.Errorf("expected a complete search, but it was truncated")
	}
	return nil
}

func InitializeOptimizationScenario(ctx *godog.ScenarioContext) {
	oc := &optimizationContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		oc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the example pantry$`, oc.theExamplePantry)
	ctx.Step(`^an optimizer pantry with:$`, oc.anOptimizerPantryWith)
	ctx.Step(`^the buyer utility to optimize$`, oc.theBuyerUtilityToOptimize)
	ctx.Step(`^an evaluation budget of (\d+)$`, oc.anEvaluationBudgetOf)

	// When steps
	ctx.Step(`^I optimize the allocation$`, oc.iOptimizeTheAllocation)

	// Then steps
	ctx.Step(`^the best utility should be (-?[0-9.]+)$`, oc.theBestUtilityShouldBe)
	ctx.Step(`^the optimal allocation should be feasible$`, oc.theOptimalAllocationShouldBeFeasible)
	ctx.Step(`^the optimal allocation should make:$`, oc.theOptimalAllocationShouldMake)
	ctx.Step(`^the search should be truncated$`, oc.theSearchShouldBeTruncated)
	ctx.Step(`^the search should be complete$`, oc.theSearchShouldBeComplete)
}
