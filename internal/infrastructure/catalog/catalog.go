// Package catalog loads the recipe and the utility distribution specs the
// service draws from. Files may be JSON, YAML or TOML.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

// Catalog holds the static data loaded at startup. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	recipe        recipe.Recipe
	distributions map[utility.Role]*distribution.Spec
}

// New builds a catalog from already-parsed data
func New(r recipe.Recipe, buyer, seller *distribution.Spec) *Catalog {
	return &Catalog{
		recipe: r,
		distributions: map[utility.Role]*distribution.Spec{
			utility.RoleBuyer:  buyer,
			utility.RoleSeller: seller,
		},
	}
}

// Load reads every file named in the data config
func Load(cfg config.DataConfig) (*Catalog, error) {
	r, err := LoadRecipe(cfg.RecipePath)
	if err != nil {
		return nil, err
	}

	buyer, err := LoadDistribution(cfg.BuyerDistributionPath)
	if err != nil {
		return nil, err
	}

	seller, err := LoadDistribution(cfg.SellerDistributionPath)
	if err != nil {
		return nil, err
	}

	return New(r, buyer, seller), nil
}

// LoadRecipe reads and validates a recipe file
func LoadRecipe(path string) (recipe.Recipe, error) {
	data, err := ReadAsJSON(path)
	if err != nil {
		return nil, err
	}

	var r recipe.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", path, err)
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("recipe %s defines no products", path)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", path, err)
	}

	return r, nil
}

// LoadDistribution reads a distribution spec file
func LoadDistribution(path string) (*distribution.Spec, error) {
	data, err := ReadAsJSON(path)
	if err != nil {
		return nil, err
	}

	spec, err := distribution.ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("invalid distribution spec %s: %w", path, err)
	}

	return spec, nil
}

// ReadAsJSON reads a JSON, YAML or TOML file and returns it as JSON
func ReadAsJSON(path string) ([]byte, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, err := ToJSON(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Recipe returns the loaded recipe
func (c *Catalog) Recipe() recipe.Recipe {
	return c.recipe
}

// Distribution returns the distribution spec for a role
func (c *Catalog) Distribution(role utility.Role) (*distribution.Spec, error) {
	spec, ok := c.distributions[role]
	if !ok || spec == nil {
		return nil, utility.NewInvalidAgentRoleError(role.String())
	}
	return spec, nil
}
