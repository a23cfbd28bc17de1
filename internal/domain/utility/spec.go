package utility

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// Kind is the "type" tag of a utility spec
type Kind string

const (
	KindUnitValue               Kind = "unitvalue"
	KindUnitValuePlusSupplement Kind = "unitvaluePlusSupplement"
	KindUnitCost                Kind = "unitcost"
	KindTrapezoid               Kind = "trapezoid"
)

// Spec describes how one good contributes value. The set of implementations
// is closed: *UnitValue, *UnitCost and *Trapezoid.
type Spec interface {
	Kind() Kind
	UnitLabel() string
	json.Marshaler
	isSpec()
}

// wireSpec is the serialized shape shared by every spec variant
type wireSpec struct {
	Type       Kind            `json:"type"`
	Unit       string          `json:"unit,omitempty"`
	Parameters json.RawMessage `json:"parameters"`
}

type wireSpecOut struct {
	Type       Kind   `json:"type"`
	Unit       string `json:"unit,omitempty"`
	Parameters any    `json:"parameters"`
}

// ============================================================================
// UnitValue
// ============================================================================

// UnitValue is linear value per unit of a primary product, optionally with
// trapezoid bonuses for supplement goods added to individual units.
type UnitValue struct {
	Tag        Kind // unitvalue or unitvaluePlusSupplement, kept for round-trips
	Unit       string
	Value      float64
	Supplement *Supplements
}

func (u *UnitValue) Kind() Kind        { return KindUnitValue }
func (u *UnitValue) UnitLabel() string { return u.Unit }
func (u *UnitValue) isSpec()           {}

// SupplementFor returns the trapezoid for a supplement good, if one is defined
func (u *UnitValue) SupplementFor(good string) (*Trapezoid, bool) {
	if u.Supplement == nil {
		return nil, false
	}
	return u.Supplement.Get(good)
}

func (u *UnitValue) MarshalJSON() ([]byte, error) {
	tag := u.Tag
	if tag == "" {
		tag = KindUnitValue
		if u.Supplement != nil {
			tag = KindUnitValuePlusSupplement
		}
	}
	return json.Marshal(wireSpecOut{
		Type: tag,
		Unit: u.Unit,
		Parameters: struct {
			UnitValue  float64      `json:"unitvalue"`
			Supplement *Supplements `json:"supplement,omitempty"`
		}{u.Value, u.Supplement},
	})
}

// ============================================================================
// UnitCost
// ============================================================================

// UnitCost is a seller's linear production cost per unit
type UnitCost struct {
	Unit string
	Cost float64
}

func (u *UnitCost) Kind() Kind        { return KindUnitCost }
func (u *UnitCost) UnitLabel() string { return u.Unit }
func (u *UnitCost) isSpec()           {}

func (u *UnitCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSpecOut{
		Type: KindUnitCost,
		Unit: u.Unit,
		Parameters: struct {
			UnitCost float64 `json:"unitcost"`
		}{u.Cost},
	})
}

// ============================================================================
// Trapezoid
// ============================================================================

// Trapezoid is a piecewise-linear bonus over a quantity range
type Trapezoid struct {
	Unit        string
	MinQuantity float64
	MaxQuantity float64
	MinValue    float64
	MaxValue    float64
}

// NewTrapezoid creates a trapezoid spec with validation
func NewTrapezoid(unit string, minQuantity, maxQuantity, minValue, maxValue float64) (*Trapezoid, error) {
	t := &Trapezoid{
		Unit:        unit,
		MinQuantity: minQuantity,
		MaxQuantity: maxQuantity,
		MinValue:    minValue,
		MaxValue:    maxValue,
	}
	if err := t.validate(""); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trapezoid) Kind() Kind        { return KindTrapezoid }
func (t *Trapezoid) UnitLabel() string { return t.Unit }
func (t *Trapezoid) isSpec()           {}

func (t *Trapezoid) validate(good string) error {
	if t.MaxQuantity < t.MinQuantity {
		return NewMalformedUtilitySpecError(good,
			fmt.Sprintf("maxQuantity %v is below minQuantity %v", t.MaxQuantity, t.MinQuantity))
	}
	return nil
}

// IsDegenerate reports whether the quantity range is a single point
func (t *Trapezoid) IsDegenerate() bool {
	return t.MaxQuantity == t.MinQuantity
}

// Slope is the bonus gained per extra unit of supplement inside the range
func (t *Trapezoid) Slope() float64 {
	if t.IsDegenerate() {
		return 0
	}
	return (t.MaxValue - t.MinValue) / (t.MaxQuantity - t.MinQuantity)
}

// EffectiveQuantity applies the over-supply rule: a request above
// maxQuantity is disqualified (zero), not capped.
func (t *Trapezoid) EffectiveQuantity(requested float64) float64 {
	if requested > t.MaxQuantity {
		return 0
	}
	return requested
}

// ValueAt interpolates between (minQuantity, minValue) and (maxQuantity, maxValue).
// There is no lower clamp: quantities below minQuantity extrapolate downward.
func (t *Trapezoid) ValueAt(quantity float64) float64 {
	if t.IsDegenerate() {
		return t.MinValue
	}
	return t.MinValue + (quantity-t.MinQuantity)*t.Slope()
}

// Bonus returns the effective quantity and bonus utility for a requested quantity
func (t *Trapezoid) Bonus(requested float64) (effective, value float64) {
	effective = t.EffectiveQuantity(requested)
	return effective, t.ValueAt(effective)
}

func (t *Trapezoid) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSpecOut{
		Type: KindTrapezoid,
		Unit: t.Unit,
		Parameters: struct {
			MinQuantity float64 `json:"minQuantity"`
			MaxQuantity float64 `json:"maxQuantity"`
			MinValue    float64 `json:"minValue"`
			MaxValue    float64 `json:"maxValue"`
		}{t.MinQuantity, t.MaxQuantity, t.MinValue, t.MaxValue},
	})
}

// ============================================================================
// Supplements
// ============================================================================

// NamedTrapezoid pairs a supplement good with its bonus spec
type NamedTrapezoid struct {
	Good string
	Spec *Trapezoid
}

// Supplements is the ordered supplement map of a UnitValue spec
type Supplements struct {
	goods []string
	specs map[string]*Trapezoid
}

// NewSupplements creates a supplement map ordered as given
func NewSupplements(entries ...NamedTrapezoid) *Supplements {
	s := &Supplements{specs: make(map[string]*Trapezoid, len(entries))}
	for _, e := range entries {
		if _, exists := s.specs[e.Good]; !exists {
			s.goods = append(s.goods, e.Good)
		}
		s.specs[e.Good] = e.Spec
	}
	return s
}

// Goods returns the supplement goods in declaration order
func (s *Supplements) Goods() []string {
	out := make([]string, len(s.goods))
	copy(out, s.goods)
	return out
}

// Get returns the trapezoid for a supplement good
func (s *Supplements) Get(good string) (*Trapezoid, bool) {
	t, ok := s.specs[good]
	return t, ok
}

// Len returns the number of supplement goods
func (s *Supplements) Len() int {
	return len(s.goods)
}

func (s *Supplements) MarshalJSON() ([]byte, error) {
	return utils.EncodeObject(s.goods, func(good string) any {
		return s.specs[good]
	})
}

// ============================================================================
// Decoding
// ============================================================================

// DecodeSpec decodes and validates the spec for one good
func DecodeSpec(good string, data []byte) (Spec, error) {
	var w wireSpec
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, NewMalformedUtilitySpecError(good, err.Error())
	}
	if w.Type == "" {
		return nil, NewMalformedUtilitySpecError(good, "missing type")
	}
	if len(w.Parameters) == 0 || string(w.Parameters) == "null" {
		return nil, NewMalformedUtilitySpecError(good, "missing parameters")
	}

	switch w.Type {
	case KindUnitValue, KindUnitValuePlusSupplement:
		return decodeUnitValue(good, w)
	case KindUnitCost:
		var p struct {
			UnitCost *float64 `json:"unitcost"`
		}
		if err := json.Unmarshal(w.Parameters, &p); err != nil {
			return nil, NewMalformedUtilitySpecError(good, err.Error())
		}
		if p.UnitCost == nil {
			return nil, NewMalformedUtilitySpecError(good, "missing parameters.unitcost")
		}
		return &UnitCost{Unit: w.Unit, Cost: *p.UnitCost}, nil
	case KindTrapezoid:
		return decodeTrapezoid(good, w)
	default:
		return nil, NewMalformedUtilitySpecError(good, fmt.Sprintf("unknown type %q", w.Type))
	}
}

func decodeUnitValue(good string, w wireSpec) (Spec, error) {
	var p struct {
		UnitValue  *float64        `json:"unitvalue"`
		Supplement json.RawMessage `json:"supplement"`
	}
	if err := json.Unmarshal(w.Parameters, &p); err != nil {
		return nil, NewMalformedUtilitySpecError(good, err.Error())
	}
	if p.UnitValue == nil {
		return nil, NewMalformedUtilitySpecError(good, "missing parameters.unitvalue")
	}

	spec := &UnitValue{Tag: w.Type, Unit: w.Unit, Value: *p.UnitValue}
	if len(p.Supplement) == 0 || string(p.Supplement) == "null" {
		return spec, nil
	}

	var entries []NamedTrapezoid
	err := utils.DecodeObject(p.Supplement, func(sgood string, raw json.RawMessage) error {
		s, err := DecodeSpec(sgood, raw)
		if err != nil {
			return err
		}
		t, ok := s.(*Trapezoid)
		if !ok {
			return NewMalformedUtilitySpecError(good,
				fmt.Sprintf("supplement %q must be %s, got %s", sgood, KindTrapezoid, s.Kind()))
		}
		entries = append(entries, NamedTrapezoid{Good: sgood, Spec: t})
		return nil
	})
	if err != nil {
		var malformed *MalformedUtilitySpecError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, NewMalformedUtilitySpecError(good, "supplement: "+err.Error())
	}
	spec.Supplement = NewSupplements(entries...)
	return spec, nil
}

func decodeTrapezoid(good string, w wireSpec) (Spec, error) {
	var p struct {
		MinQuantity *float64 `json:"minQuantity"`
		MaxQuantity *float64 `json:"maxQuantity"`
		MinValue    *float64 `json:"minValue"`
		MaxValue    *float64 `json:"maxValue"`
	}
	if err := json.Unmarshal(w.Parameters, &p); err != nil {
		return nil, NewMalformedUtilitySpecError(good, err.Error())
	}
	required := []struct {
		name  string
		value *float64
	}{
		{"minQuantity", p.MinQuantity},
		{"maxQuantity", p.MaxQuantity},
		{"minValue", p.MinValue},
		{"maxValue", p.MaxValue},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, NewMalformedUtilitySpecError(good, "missing parameters."+r.name)
		}
	}

	t := &Trapezoid{
		Unit:        w.Unit,
		MinQuantity: *p.MinQuantity,
		MaxQuantity: *p.MaxQuantity,
		MinValue:    *p.MinValue,
		MaxValue:    *p.MaxValue,
	}
	if err := t.validate(good); err != nil {
		return nil, err
	}
	return t, nil
}
