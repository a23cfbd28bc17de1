// Package utility scores bundles for the two sides of a negotiation.
// A Function maps each primary good to a Spec; buyers are scored with
// UnitValue specs plus per-unit Trapezoid supplement bonuses, sellers with
// UnitCost specs against the agreed price.
package utility

import (
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// Function maps a primary good to the spec describing its value.
// It is not mutated after construction.
type Function map[string]Spec

// ParseFunction decodes and validates a utility function
func ParseFunction(data []byte) (Function, error) {
	var fn Function
	if err := json.Unmarshal(data, &fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// UnmarshalJSON decodes every entry into its tagged spec variant
func (f *Function) UnmarshalJSON(data []byte) error {
	fn := make(Function)
	err := utils.DecodeObject(data, func(good string, raw json.RawMessage) error {
		spec, err := DecodeSpec(good, raw)
		if err != nil {
			return err
		}
		fn[good] = spec
		return nil
	})
	if err != nil {
		return err
	}
	*f = fn
	return nil
}

// Goods returns the goods with an entry, in ascending order
func (f Function) Goods() []string {
	return utils.SortedKeys(f)
}

// Lookup returns the spec for a good or a MissingUtilityEntryError
func (f Function) Lookup(good string) (Spec, error) {
	spec, ok := f[good]
	if !ok || spec == nil {
		return nil, NewMissingUtilityEntryError(good)
	}
	return spec, nil
}

// UnitValueFor returns the buyer spec for a good
func (f Function) UnitValueFor(good string) (*UnitValue, error) {
	spec, err := f.Lookup(good)
	if err != nil {
		return nil, err
	}
	uv, ok := spec.(*UnitValue)
	if !ok {
		return nil, NewUnexpectedSpecTypeError(good, KindUnitValue, spec.Kind())
	}
	return uv, nil
}

// UnitCostFor returns the seller spec for a good
func (f Function) UnitCostFor(good string) (*UnitCost, error) {
	spec, err := f.Lookup(good)
	if err != nil {
		return nil, err
	}
	uc, ok := spec.(*UnitCost)
	if !ok {
		return nil, NewUnexpectedSpecTypeError(good, KindUnitCost, spec.Kind())
	}
	return uc, nil
}

func (f Function) String() string {
	return fmt.Sprintf("Function(%d goods)", len(f))
}
