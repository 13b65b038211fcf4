package poem

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// JSONFormat reads an array of {id, title, body, keywords} objects.
type JSONFormat struct{}

// YAMLFormat reads a sequence of works, or a mapping with a "poems" sequence.
type YAMLFormat struct{}

// TOMLFormat reads [[poem]] tables.
type TOMLFormat struct{}

func init() {
	Register(&JSONFormat{})
	Register(&YAMLFormat{})
	Register(&TOMLFormat{})
}

func (f *JSONFormat) Name() string         { return "JSON" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }

func (f *JSONFormat) Decode(data []byte) ([]Work, error) {
	var works []Work
	if err := json.Unmarshal(data, &works); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return works, nil
}

func (f *YAMLFormat) Name() string         { return "YAML" }
func (f *YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }

func (f *YAMLFormat) Decode(data []byte) ([]Work, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	var works []Work
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&works); err != nil {
			return nil, fmt.Errorf("failed to decode YAML works: %w", err)
		}
	case yaml.MappingNode:
		var doc struct {
			Poems []Work `yaml:"poems"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML works: %w", err)
		}
		works = doc.Poems
	default:
		return nil, fmt.Errorf("YAML root must be a sequence or mapping")
	}
	return works, nil
}

func (f *TOMLFormat) Name() string         { return "TOML" }
func (f *TOMLFormat) Extensions() []string { return []string{".toml"} }

func (f *TOMLFormat) Decode(data []byte) ([]Work, error) {
	var doc struct {
		Poems []Work `toml:"poem"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return doc.Poems, nil
}
