package config

import "time"

// OptimizerConfig bounds the allocation search
type OptimizerConfig struct {
	// Cap on each good's quantity on top of its ingredient bound
	MaxQuantityPerGood int `mapstructure:"max_quantity_per_good" yaml:"max_quantity_per_good" validate:"min=1"`

	// Base allocations scored before the search stops
	MaxEvaluations int `mapstructure:"max_evaluations" yaml:"max_evaluations" validate:"min=0"`

	// Deadline for a single optimization
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`
}
