package utility

import (
	"fmt"

	"github.com/andrescamacho/anac-utility-go/internal/domain/shared"
)

// Domain errors for utility evaluation

// MissingUtilityEntryError indicates a good in a bundle has no entry in the utility function
type MissingUtilityEntryError struct {
	*shared.LookupError
	Good string
}

func NewMissingUtilityEntryError(good string) *MissingUtilityEntryError {
	return &MissingUtilityEntryError{
		LookupError: shared.NewLookupError(fmt.Sprintf("no utility entry for good %q", good), good),
		Good:        good,
	}
}

// UnexpectedSpecTypeError indicates an entry exists but has the wrong shape for
// the evaluation, e.g. a seller's unitcost entry handed to the buyer evaluator
type UnexpectedSpecTypeError struct {
	*shared.DomainError
	Good string
	Want Kind
	Got  Kind
}

func NewUnexpectedSpecTypeError(good string, want, got Kind) *UnexpectedSpecTypeError {
	return &UnexpectedSpecTypeError{
		DomainError: shared.NewDomainError(fmt.Sprintf("utility entry for %q is %s, expected %s", good, got, want)),
		Good:        good,
		Want:        want,
		Got:         got,
	}
}

// MalformedUtilitySpecError indicates a utility spec failed construction-time checks
type MalformedUtilitySpecError struct {
	*shared.DomainError
	Good   string
	Reason string
}

func NewMalformedUtilitySpecError(good, reason string) *MalformedUtilitySpecError {
	return &MalformedUtilitySpecError{
		DomainError: shared.NewDomainError(fmt.Sprintf("malformed utility spec for %q: %s", good, reason)),
		Good:        good,
		Reason:      reason,
	}
}

// InvalidAgentRoleError indicates a role string is not buyer/seller/human/agent
type InvalidAgentRoleError struct {
	*shared.DomainError
	Role string
}

func NewInvalidAgentRoleError(role string) *InvalidAgentRoleError {
	return &InvalidAgentRoleError{
		DomainError: shared.NewDomainError("invalid agent role: " + role),
		Role:        role,
	}
}
