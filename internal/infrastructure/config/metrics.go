package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" yaml:"path" validate:"startswith=/"`

	// Namespace prefixed to every metric name
	Namespace string `mapstructure:"namespace" yaml:"namespace" validate:"required,alphanum"`
}
