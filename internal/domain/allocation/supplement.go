package allocation

import (
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// SupplementItem is one secondary good added to a single unit of a product.
type SupplementItem struct {
	Good     string
	Unit     string
	Quantity float64
}

// supplementEntry is the wire shape of a block member: {"unit": ..., "quantity": ...}
type supplementEntry struct {
	Unit     string   `json:"unit,omitempty"`
	Quantity *float64 `json:"quantity"`
}

// SupplementBlock is one unit's worth of secondary-good additions.
//
// Members keep the order in which they appeared in the serialized input.
// Scoring gives the single allowed extra to the first member, so the order
// is part of the block's meaning and is never derived from map iteration.
type SupplementBlock struct {
	items []SupplementItem
}

// NewSupplementBlock creates a block whose members are ordered as given
func NewSupplementBlock(items ...SupplementItem) SupplementBlock {
	copied := make([]SupplementItem, len(items))
	copy(copied, items)
	return SupplementBlock{items: copied}
}

// Items returns the block members in order
func (b SupplementBlock) Items() []SupplementItem {
	out := make([]SupplementItem, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of members in the block
func (b SupplementBlock) Len() int {
	return len(b.items)
}

// IsEmpty checks if the block adds nothing
func (b SupplementBlock) IsEmpty() bool {
	return len(b.items) == 0
}

// Get returns the member for a good, if present
func (b SupplementBlock) Get(good string) (SupplementItem, bool) {
	for _, item := range b.items {
		if item.Good == good {
			return item, true
		}
	}
	return SupplementItem{}, false
}

// MarshalJSON writes the block as an object in member order
func (b SupplementBlock) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(b.items))
	byGood := make(map[string]SupplementItem, len(b.items))
	for i, item := range b.items {
		keys[i] = item.Good
		byGood[item.Good] = item
	}
	return utils.EncodeObject(keys, func(good string) any {
		item := byGood[good]
		q := item.Quantity
		return supplementEntry{Unit: item.Unit, Quantity: &q}
	})
}

// UnmarshalJSON reads the block preserving member order
func (b *SupplementBlock) UnmarshalJSON(data []byte) error {
	var items []SupplementItem
	err := utils.DecodeObject(data, func(good string, raw json.RawMessage) error {
		var entry supplementEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("supplement %s: %w", good, err)
		}
		if entry.Quantity == nil {
			return fmt.Errorf("supplement %s: missing quantity", good)
		}
		items = append(items, SupplementItem{Good: good, Unit: entry.Unit, Quantity: *entry.Quantity})
		return nil
	})
	if err != nil {
		return err
	}
	b.items = items
	return nil
}
