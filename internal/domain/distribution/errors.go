package distribution

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
)

// MalformedDistributionSpecError indicates a node is neither a [min, max]
// range, a string, nor an object
type MalformedDistributionSpecError struct {
	*shared.DomainError
	Path   string
	Reason string
}

func NewMalformedDistributionSpecError(path, reason string) *MalformedDistributionSpecError {
	return &MalformedDistributionSpecError{
		DomainError: shared.NewDomainError(fmt.Sprintf("malformed distribution spec at %s: %s", path, reason)),
		Path:        path,
		Reason:      reason,
	}
}
