package settings

import (
	"encoding/json"
	"fmt"
)

// DeepMerge merges override into base and returns the result. Object keys
// merge recursively; arrays and scalars replace wholesale, never concatenate.
// Neither input map is mutated.
func DeepMerge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base))
	for k, v := range base {
		merged[k] = v
	}

	for k, v := range override {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}

		existingMap, existingIsMap := existing.(map[string]any)
		overrideMap, overrideIsMap := v.(map[string]any)
		if existingIsMap && overrideIsMap {
			merged[k] = DeepMerge(existingMap, overrideMap)
			continue
		}

		merged[k] = v
	}

	return merged
}

// ApplyOverrides deep-merges a partial settings object (as decoded JSON) over
// base and returns the resolved settings. base is not modified.
func ApplyOverrides(base *Settings, overrides map[string]any) (*Settings, error) {
	if len(overrides) == 0 {
		copied := *base
		return &copied, nil
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal base settings: %w", err)
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, fmt.Errorf("failed to decode base settings: %w", err)
	}

	mergedMap := DeepMerge(baseMap, overrides)

	mergedJSON, err := json.Marshal(mergedMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged settings: %w", err)
	}

	var merged Settings
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("failed to parse merged settings: %w", err)
	}

	return &merged, nil
}
