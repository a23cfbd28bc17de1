package common

import (
	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// Catalog provides the read-only configuration loaded at process start
type Catalog interface {
	// Recipe returns the product recipes
	Recipe() recipe.Recipe

	// Distribution returns the utility distribution spec for a role
	Distribution(role utility.Role) (*distribution.Spec, error)
}

// EvaluationRecorder observes use case outcomes for telemetry
type EvaluationRecorder interface {
	RecordUtilityGenerated(role utility.Role)
	RecordUtilityScore(role utility.Role, value float64)
	RecordSufficiency(sufficient bool)
	RecordOptimization(evaluated int, truncated bool, utility float64)
}

// NoOpRecorder discards every observation
type NoOpRecorder struct{}

func (NoOpRecorder) RecordUtilityGenerated(utility.Role)      {}
func (NoOpRecorder) RecordUtilityScore(utility.Role, float64) {}
func (NoOpRecorder) RecordSufficiency(bool)                   {}
func (NoOpRecorder) RecordOptimization(int, bool, float64)    {}
