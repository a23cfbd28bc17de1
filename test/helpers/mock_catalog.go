package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/domain/distribution"
	"github.com/andrescamacho/anac-utility-go/internal/domain/recipe"
	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

// MockCatalog is a fixed catalog built from the bakery fixtures
type MockCatalog struct {
	RecipeData    recipe.Recipe
	Distributions map[utility.Role]*distribution.Spec
	DistErr       error
}

// NewMockCatalog creates a catalog with the fixture recipe and distributions
func NewMockCatalog(t testing.TB) *MockCatalog {
	t.Helper()
	buyer, err := distribution.ParseSpec([]byte(BuyerDistributionJSON))
	require.NoError(t, err)
	seller, err := distribution.ParseSpec([]byte(SellerDistributionJSON))
	require.NoError(t, err)

	return &MockCatalog{
		RecipeData: Recipe(),
		Distributions: map[utility.Role]*distribution.Spec{
			utility.RoleBuyer:  buyer,
			utility.RoleSeller: seller,
		},
	}
}

// Recipe returns the configured recipe
func (m *MockCatalog) Recipe() recipe.Recipe {
	return m.RecipeData
}

// Distribution returns the spec for a role
func (m *MockCatalog) Distribution(role utility.Role) (*distribution.Spec, error) {
	if m.DistErr != nil {
		return nil, m.DistErr
	}
	spec, ok := m.Distributions[role]
	if !ok {
		return nil, utility.NewInvalidAgentRoleError(role.String())
	}
	return spec, nil
}
