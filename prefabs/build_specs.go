package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeSpec re-decodes a loosely typed value, such as the props of a level
// entity, into T.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// BodySpecWithOverrides loads the body prefab name and overlays props on
// it. Keys missing from props keep the prefab's values.
func BodySpecWithOverrides(name string, props map[string]any) (*BodySpec, error) {
	spec, err := LoadBodySpec(name)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return spec, nil
	}
	b, err := yaml.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("prefabs: encode overrides for %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, spec); err != nil {
		return nil, fmt.Errorf("prefabs: apply overrides to %s: %w", name, err)
	}
	return spec, nil
}
