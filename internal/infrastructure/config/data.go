package config

// DataConfig locates the static files loaded at startup. The format of
// each file follows its extension: .json, .yaml/.yml or .toml.
type DataConfig struct {
	RecipePath             string `mapstructure:"recipe_path" yaml:"recipe_path" validate:"required,datafile"`
	BuyerDistributionPath  string `mapstructure:"buyer_distribution_path" yaml:"buyer_distribution_path" validate:"required,datafile"`
	SellerDistributionPath string `mapstructure:"seller_distribution_path" yaml:"seller_distribution_path" validate:"required,datafile"`
}
