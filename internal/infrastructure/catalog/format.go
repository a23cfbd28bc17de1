package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/anac-utility-go/pkg/utils"
)

// Format is the encoding of a data file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported data file extension %q", filepath.Ext(path))
	}
}

// ToJSON re-encodes a document as JSON. Mapping keys keep their document
// order, since supplement blocks and distribution specs depend on it.
func ToJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		return yamlToJSON(data)
	case FormatTOML:
		return tomlToJSON(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ============================================================================
// YAML
// ============================================================================

func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return []byte("null"), nil
	}
	return encodeYAMLNode(&doc)
}

func encodeYAMLNode(node *yaml.Node) ([]byte, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return []byte("null"), nil
		}
		return encodeYAMLNode(node.Content[0])

	case yaml.AliasNode:
		return encodeYAMLNode(node.Alias)

	case yaml.MappingNode:
		keys := make([]string, 0, len(node.Content)/2)
		values := make(map[string]json.RawMessage, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if _, dup := values[key]; dup {
				return nil, fmt.Errorf("line %d: duplicate key %q", node.Content[i].Line, key)
			}
			value, err := encodeYAMLNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values[key] = value
		}
		return utils.EncodeObject(keys, func(key string) any { return values[key] })

	case yaml.SequenceNode:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, err := encodeYAMLNode(item)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	case yaml.ScalarNode:
		if node.Tag == "!!str" {
			return json.Marshal(node.Value)
		}
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return json.Marshal(value)

	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

// ============================================================================
// TOML
// ============================================================================

// tomlToJSON rebuilds the table hierarchy from the decoder's key list, which
// is reported in document order.
func tomlToJSON(data []byte) ([]byte, error) {
	var decoded map[string]any
	md, err := toml.Decode(string(data), &decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse toml: %w", err)
	}

	root := newTable()
	for _, key := range md.Keys() {
		root.insert(key, decoded)
	}
	root.fill(decoded)
	return root.MarshalJSON()
}

type table struct {
	keys   []string
	values map[string]any
}

func newTable() *table {
	return &table{values: make(map[string]any)}
}

func (t *table) set(key string, value any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *table) insert(key toml.Key, decoded map[string]any) {
	current := t
	var scope any = decoded
	for i, part := range key {
		m, ok := scope.(map[string]any)
		if !ok {
			// inside an array of tables; the array was stored whole
			return
		}
		scope = m[part]

		if i == len(key)-1 {
			if _, isTable := scope.(map[string]any); isTable {
				if _, exists := current.values[part]; !exists {
					current.set(part, newTable())
				}
				return
			}
			current.set(part, scope)
			return
		}

		next, ok := current.values[part].(*table)
		if !ok {
			if _, exists := current.values[part]; exists {
				return
			}
			next = newTable()
			current.set(part, next)
		}
		current = next
	}
}

// fill adds any decoded members the key list did not report, in sorted order
func (t *table) fill(decoded map[string]any) {
	for _, key := range utils.SortedKeys(decoded) {
		value := decoded[key]
		sub, isTable := value.(map[string]any)
		existing, exists := t.values[key]
		switch {
		case !exists && isTable:
			next := newTable()
			next.fill(sub)
			t.set(key, next)
		case !exists:
			t.set(key, value)
		case isTable:
			if next, ok := existing.(*table); ok {
				next.fill(sub)
			}
		}
	}
}

func (t *table) MarshalJSON() ([]byte, error) {
	return utils.EncodeObject(t.keys, func(key string) any { return t.values[key] })
}
