package recipe

import (
	"github.com/andrescamacho/anac-utility-go/internal/domain/allocation"
	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// Requirement compares what an allocation needs of one ingredient with what is on hand
type Requirement struct {
	Need float64 `json:"need"`
	Have float64 `json:"have"`
}

// IsMet checks if the on-hand quantity covers the need
func (r Requirement) IsMet() bool {
	return r.Need <= r.Have
}

// Shortfall is an ingredient whose need exceeds what is on hand
type Shortfall struct {
	Ingredient string  `json:"ingredient"`
	Need       float64 `json:"need"`
	Have       float64 `json:"have"`
	Missing    float64 `json:"missing"`
}

// Sufficiency is the outcome of checking an allocation against the pantry.
// An insufficient result is a normal outcome, not an error.
type Sufficiency struct {
	Sufficient bool                   `json:"sufficient"`
	Rationale  map[string]Requirement `json:"rationale"`
	Required   map[string]float64     `json:"-"`
}

// Shortfalls lists the ingredients that are short, in ascending order
func (s *Sufficiency) Shortfalls() []Shortfall {
	var out []Shortfall
	for _, ing := range utils.SortedKeys(s.Rationale) {
		req := s.Rationale[ing]
		if !req.IsMet() {
			out = append(out, Shortfall{
				Ingredient: ing,
				Need:       req.Need,
				Have:       req.Have,
				Missing:    req.Need - req.Have,
			})
		}
	}
	return out
}

// Leftover returns what remains of each on-hand ingredient after the requirement
func (s *Sufficiency) Leftover() Ingredients {
	left := make(Ingredients, len(s.Rationale))
	for ing, req := range s.Rationale {
		left[ing] = req.Have - req.Need
	}
	return left
}

// CheckSufficiency checks whether the ingredients on hand can realize an allocation.
//
// Only ingredients present in the pantry are compared; an ingredient with no
// requirement is trivially sufficient. The rationale reports need and have
// for every pantry ingredient whether or not it is short.
func CheckSufficiency(ingredients Ingredients, alloc allocation.Allocation, r Recipe) (*Sufficiency, error) {
	required, err := Required(alloc, r)
	if err != nil {
		return nil, err
	}

	result := &Sufficiency{
		Sufficient: true,
		Rationale:  make(map[string]Requirement, len(ingredients)),
		Required:   required,
	}
	for _, ing := range utils.SortedKeys(ingredients) {
		req := Requirement{Need: required[ing], Have: ingredients[ing]}
		result.Rationale[ing] = req
		result.Sufficient = result.Sufficient && req.IsMet()
	}

	return result, nil
}
