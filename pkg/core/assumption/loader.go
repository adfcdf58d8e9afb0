package assumption

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	yaml "gopkg.in/yaml.v2"
)

// ModelFile is the on-disk representation of a named model: one assumption
// shape plus optional returns and covenant sections. Exactly one of Paydown
// or Granular must be present.
type ModelFile struct {
	Name      string               `json:"name"`
	Paydown   *PaydownAssumptions  `json:"paydown,omitempty"`
	Granular  *GranularAssumptions `json:"granular,omitempty"`
	Returns   *ReturnsInput        `json:"returns,omitempty"`
	Covenants *CovenantThresholds  `json:"covenants,omitempty"`
}

// Shape reports which assumption shape the file carries.
func (m *ModelFile) Shape() Shape {
	if m.Granular != nil {
		return ShapeGranular
	}
	return ShapeSimplified
}

// LoadFile reads a model file in hjson, json or yaml form and validates every
// section it carries. Validation is all-or-nothing: a file with any invalid
// section is rejected whole.
func LoadFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var mf ModelFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := unmarshalYAML(data, &mf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		// hjson is a superset of json, so .json files take the same path.
		if err := hjson.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := mf.Validate(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Validate checks section presence and delegates to each section's validator.
func (m *ModelFile) Validate() error {
	if m.Paydown == nil && m.Granular == nil {
		return invalid("model file needs a paydown or granular section")
	}
	if m.Paydown != nil && m.Granular != nil {
		return invalid("model file cannot carry both paydown and granular sections")
	}
	if m.Paydown != nil {
		if err := m.Paydown.Validate(); err != nil {
			return err
		}
	}
	if m.Granular != nil {
		if err := m.Granular.Validate(); err != nil {
			return err
		}
	}
	if m.Returns != nil {
		if err := m.Returns.Validate(); err != nil {
			return err
		}
	}
	if m.Covenants != nil {
		if err := m.Covenants.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// unmarshalYAML routes yaml through a json round-trip so the snake_case json
// tags stay the single source of truth for field names in every format.
func unmarshalYAML(data []byte, out interface{}) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, out)
}

// normalizeYAML rewrites yaml.v2's map[interface{}]interface{} nodes into
// map[string]interface{} so encoding/json can marshal them.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
