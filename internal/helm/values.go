package helm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Values represents chart values as a map.
type Values map[string]any

// Merge combines value maps with later maps taking precedence. Nested
// maps are merged recursively, matching helm's own --values semantics.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		mergeInto(result, m)
	}
	return result
}

// mergeInto copies src into dst. Nested maps are cloned so the inputs
// are never mutated through shared references.
func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcOK := asMap(v)
		if !srcOK {
			dst[k] = v
			continue
		}
		dstMap, dstOK := asMap(dst[k])
		if !dstOK {
			dstMap = make(map[string]any, len(srcMap))
		}
		merged := make(map[string]any, len(dstMap)+len(srcMap))
		mergeInto(merged, dstMap)
		mergeInto(merged, srcMap)
		dst[k] = merged
	}
}

// asMap unwraps the map types a value can arrive as: plain maps from
// mapstructure-decoded config and Values from parsed YAML.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Values:
		return m, true
	}
	return nil, false
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return Values(raw), nil
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	return data, nil
}

// ResolveValues builds the effective values for a release: the values
// file (if any) as the base, with inline values layered on top.
func ResolveValues(inline map[string]any, valuesFile string) (Values, error) {
	fileValues := make(Values)
	if valuesFile != "" {
		data, err := os.ReadFile(valuesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file %s: %w", valuesFile, err)
		}
		fileValues, err = FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("invalid values file %s: %w", valuesFile, err)
		}
	}
	return Merge(fileValues, inline), nil
}
