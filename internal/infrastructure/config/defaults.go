package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7021
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 50 << 20 // 50 MB
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = 50
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 100
	}

	// Data defaults
	if cfg.Data.RecipePath == "" {
		cfg.Data.RecipePath = "configs/recipe.json"
	}
	if cfg.Data.BuyerDistributionPath == "" {
		cfg.Data.BuyerDistributionPath = "configs/buyerUtilityDistributionParameters.json"
	}
	if cfg.Data.SellerDistributionPath == "" {
		cfg.Data.SellerDistributionPath = "configs/sellerUtilityDistributionParameters.json"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "anac"
	}

	// Optimizer defaults
	if cfg.Optimizer.MaxQuantityPerGood == 0 {
		cfg.Optimizer.MaxQuantityPerGood = 50
	}
	if cfg.Optimizer.MaxEvaluations == 0 {
		cfg.Optimizer.MaxEvaluations = 250000
	}
	if cfg.Optimizer.Timeout == 0 {
		cfg.Optimizer.Timeout = 20 * time.Second
	}
}
