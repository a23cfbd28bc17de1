package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// UtilityMetricsCollector records what the utility use cases observe.
// It implements common.EvaluationRecorder.
type UtilityMetricsCollector struct {
	generatedTotal   *prometheus.CounterVec
	utilityScore     *prometheus.HistogramVec
	sufficiencyTotal *prometheus.CounterVec

	optimizerEvaluations prometheus.Histogram
	optimizerTruncations prometheus.Counter
	optimizerBest        prometheus.Histogram
}

// NewUtilityMetricsCollector creates the collector and registers it
func NewUtilityMetricsCollector(reg prometheus.Registerer, namespace string) *UtilityMetricsCollector {
	factory := promauto.With(reg)

	return &UtilityMetricsCollector{
		generatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "utilities_generated_total",
				Help:      "Total number of utility functions drawn, by role",
			},
			[]string{"role"},
		),

		utilityScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "score_value",
				Help:      "Distribution of calculated utility values, by role",
				Buckets:   []float64{-100, -10, 0, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"role"},
		),

		sufficiencyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sufficiency_checks_total",
				Help:      "Total number of allocation checks, by outcome",
			},
			[]string{"sufficient"},
		),

		optimizerEvaluations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizer_evaluations",
			Help:      "Candidate allocations scored per optimization",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		optimizerTruncations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizer_truncations_total",
			Help:      "Optimizations that stopped at the evaluation budget",
		}),

		optimizerBest: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizer_best_utility",
			Help:      "Utility of the allocation each optimization returned",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

func (c *UtilityMetricsCollector) RecordUtilityGenerated(role utility.Role) {
	c.generatedTotal.WithLabelValues(role.String()).Inc()
}

func (c *UtilityMetricsCollector) RecordUtilityScore(role utility.Role, value float64) {
	c.utilityScore.WithLabelValues(role.String()).Observe(value)
}

func (c *UtilityMetricsCollector) RecordSufficiency(sufficient bool) {
	c.sufficiencyTotal.WithLabelValues(strconv.FormatBool(sufficient)).Inc()
}

func (c *UtilityMetricsCollector) RecordOptimization(evaluated int, truncated bool, best float64) {
	c.optimizerEvaluations.Observe(float64(evaluated))
	if truncated {
		c.optimizerTruncations.Inc()
	}
	c.optimizerBest.Observe(best)
}
