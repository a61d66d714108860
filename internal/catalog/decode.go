package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses a catalog document. Both a bare list of records and an
// object with a "shirts" key are accepted.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

func decodeJSON(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
		return &Document{Shirts: records}, nil
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return &doc, nil
}

func decodeYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return &Document{}, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
		return &Document{Shirts: records}, nil
	case yaml.MappingNode:
		var doc Document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
		return &doc, nil
	default:
		return nil, fmt.Errorf("decode yaml catalog: expected a list or a mapping at line %d", node.Line)
	}
}
