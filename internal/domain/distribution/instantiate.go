// Package distribution draws concrete utility functions from distribution
// specs. A spec mirrors the shape of a utility function, with every numeric
// parameter replaced by a [min, max] range.
package distribution

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/andrescamacho/anac-utility-go/internal/domain/utility"
)

const (
	distributionField = "distribution"
	utilityField      = "utility"
	minQuantityField  = "minQuantity"
	maxQuantityField  = "maxQuantity"
)

// RandomSource yields uniform draws in [0, 1)
type RandomSource interface {
	Float64() float64
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the runtime's entropy
func NewRandomSource() RandomSource {
	return NewSource(rand.Uint64())
}

// Spec is a parsed distribution spec
type Spec struct {
	root *Node
}

// ParseSpec decodes a distribution spec. The root must be an object.
func ParseSpec(data []byte) (*Spec, error) {
	root, err := parseNode("$", data)
	if err != nil {
		return nil, err
	}
	if root.Kind != ObjectNode {
		return nil, NewMalformedDistributionSpecError("$", "root must be an object")
	}
	return &Spec{root: root}, nil
}

// Root returns the top-level node
func (s *Spec) Root() *Node {
	return s.root
}

func (s *Spec) MarshalJSON() ([]byte, error) {
	return s.root.MarshalJSON()
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSpec(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// Draw is one instantiation of a spec
type Draw struct {
	ID uuid.UUID
	// Raw is the instantiated tree with the distribution key renamed
	Raw *Node
	// Utility is the decoded function, taken from the "utility" member
	// when the spec wraps it, otherwise from the whole tree
	Utility utility.Function
}

// Instantiate replaces every range in the spec with a uniform draw,
// quantized to the precision of its field. A nil rng draws from a freshly
// seeded source.
func Instantiate(spec *Spec, rng RandomSource) (*Draw, error) {
	if spec == nil || spec.root == nil {
		return nil, NewMalformedDistributionSpecError("$", "spec is empty")
	}
	if rng == nil {
		rng = NewRandomSource()
	}

	raw, err := instantiate("", spec.root, rng, "$")
	if err != nil {
		return nil, err
	}

	body := raw
	if wrapped := raw.Get(utilityField); wrapped != nil && spec.root.Get(distributionField) != nil {
		body = wrapped
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instantiated utility: %w", err)
	}
	fn, err := utility.ParseFunction(data)
	if err != nil {
		return nil, fmt.Errorf("instantiated utility is invalid: %w", err)
	}

	return &Draw{ID: uuid.New(), Raw: raw, Utility: fn}, nil
}

func instantiate(field string, n *Node, rng RandomSource, path string) (*Node, error) {
	switch n.Kind {
	case RangeNode:
		lo, hi := n.Range[0], n.Range[1]
		drawn := lo + rng.Float64()*(hi-lo)
		return &Node{Kind: NumberNode, Number: Quantize(drawn, lo, hi, DecimalsFor(field))}, nil

	case StringNode:
		return &Node{Kind: StringNode, Text: n.Text}, nil

	case ObjectNode:
		out := &Node{Kind: ObjectNode, Fields: make([]Field, 0, len(n.Fields))}
		seen := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			child, err := instantiate(f.Name, f.Value, rng, path+"."+f.Name)
			if err != nil {
				return nil, err
			}
			name := f.Name
			if name == distributionField {
				name = utilityField
			}
			if seen[name] {
				return nil, NewMalformedDistributionSpecError(path,
					fmt.Sprintf("both %q and %q are present", distributionField, utilityField))
			}
			seen[name] = true
			out.Fields = append(out.Fields, Field{Name: name, Value: child})
		}
		orderQuantities(n, out)
		return out, nil

	default:
		return nil, NewMalformedDistributionSpecError(path, "numbers must be given as [min, max] ranges")
	}
}

// orderQuantities keeps a drawn minQuantity at or below the drawn
// maxQuantity when their ranges overlap. The maximum is raised to the
// minimum when its range allows it, otherwise the minimum is lowered to the
// maximum, otherwise both take the lowest value the two ranges share.
func orderQuantities(spec, drawn *Node) {
	minRange, maxRange := spec.Get(minQuantityField), spec.Get(maxQuantityField)
	if minRange == nil || maxRange == nil || minRange.Kind != RangeNode || maxRange.Kind != RangeNode {
		return
	}

	lo, hi := drawn.Get(minQuantityField), drawn.Get(maxQuantityField)
	if lo.Number <= hi.Number {
		return
	}

	switch {
	case lo.Number <= maxRange.Range[1]:
		hi.Number = lo.Number
	case hi.Number >= minRange.Range[0]:
		lo.Number = hi.Number
	default:
		common := Quantize(minRange.Range[0], minRange.Range[0], maxRange.Range[1], DecimalsFor(minQuantityField))
		lo.Number, hi.Number = common, common
	}
}
