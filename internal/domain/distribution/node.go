package distribution

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// NodeKind identifies the shape of a tree node
type NodeKind int

const (
	ObjectNode NodeKind = iota
	StringNode
	RangeNode  // [min, max] in a spec
	NumberNode // drawn value in an instantiated tree
)

// Field is a named member of an object node
type Field struct {
	Name  string
	Value *Node
}

// Node is one element of a distribution spec or of an instantiated tree.
// Object members keep their serialized order.
type Node struct {
	Kind   NodeKind
	Fields []Field
	Text   string
	Range  [2]float64
	Number float64
}

// Get returns the member with the given name, or nil
func (n *Node) Get(name string) *Node {
	if n == nil || n.Kind != ObjectNode {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON writes the node, keeping object member order
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case ObjectNode:
		names := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			names[i] = f.Name
		}
		return utils.EncodeObject(names, func(name string) any {
			return n.Get(name)
		})
	case StringNode:
		return json.Marshal(n.Text)
	case RangeNode:
		return json.Marshal(n.Range[:])
	case NumberNode:
		return json.Marshal(n.Number)
	default:
		return nil, fmt.Errorf("unknown node kind %d", n.Kind)
	}
}

// parseNode decodes a spec node. Only objects, strings and two-element
// numeric ranges are accepted.
func parseNode(path string, data json.RawMessage) (*Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, NewMalformedDistributionSpecError(path, "empty value")
	}

	switch trimmed[0] {
	case '{':
		node := &Node{Kind: ObjectNode}
		err := utils.DecodeObject(trimmed, func(name string, raw json.RawMessage) error {
			child, err := parseNode(path+"."+name, raw)
			if err != nil {
				return err
			}
			node.Fields = append(node.Fields, Field{Name: name, Value: child})
			return nil
		})
		if err != nil {
			var malformed *MalformedDistributionSpecError
			if errors.As(err, &malformed) {
				return nil, err
			}
			return nil, NewMalformedDistributionSpecError(path, err.Error())
		}
		if err := checkQuantityRanges(path, node); err != nil {
			return nil, err
		}
		return node, nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, NewMalformedDistributionSpecError(path, err.Error())
		}
		return &Node{Kind: StringNode, Text: s}, nil

	case '[':
		var bounds []float64
		if err := json.Unmarshal(trimmed, &bounds); err != nil {
			return nil, NewMalformedDistributionSpecError(path, "range must contain only numbers")
		}
		if len(bounds) != 2 {
			return nil, NewMalformedDistributionSpecError(path,
				fmt.Sprintf("range must have exactly 2 elements, got %d", len(bounds)))
		}
		if bounds[0] > bounds[1] {
			return nil, NewMalformedDistributionSpecError(path,
				fmt.Sprintf("range minimum %v exceeds maximum %v", bounds[0], bounds[1]))
		}
		return &Node{Kind: RangeNode, Range: [2]float64{bounds[0], bounds[1]}}, nil

	default:
		return nil, NewMalformedDistributionSpecError(path,
			fmt.Sprintf("expected [min, max] range, object or string, got %s", trimmed))
	}
}

// checkQuantityRanges rejects a maxQuantity range that lies entirely below
// its sibling minQuantity range, since no draw of the pair could be ordered
func checkQuantityRanges(path string, node *Node) error {
	lo, hi := node.Get(minQuantityField), node.Get(maxQuantityField)
	if lo == nil || hi == nil || lo.Kind != RangeNode || hi.Kind != RangeNode {
		return nil
	}
	if hi.Range[1] < lo.Range[0] {
		return NewMalformedDistributionSpecError(path+"."+maxQuantityField,
			fmt.Sprintf("range %v lies below minQuantity range %v", hi.Range, lo.Range))
	}
	return nil
}
