package recipe

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
)

// MissingRecipeEntryError indicates a good in an allocation has no recipe
type MissingRecipeEntryError struct {
	*shared.LookupError
	Good string
}

func NewMissingRecipeEntryError(good string) *MissingRecipeEntryError {
	return &MissingRecipeEntryError{
		LookupError: shared.NewLookupError(fmt.Sprintf("no recipe for good %q", good), good),
		Good:        good,
	}
}
