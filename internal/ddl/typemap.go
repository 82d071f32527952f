package ddl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	optTypeMappings     = "type_mappings"
	optTypeMappingsFile = "type_mappings_file"
)

// LoadTypeMappings resolves type-mapping overrides from connector options:
// an inline JSON object under "type_mappings" and/or a JSON or YAML file under
// "type_mappings_file". Inline entries win over file entries.
func LoadTypeMappings(options map[string]string) (map[string]string, error) {
	fromFile := map[string]string{}
	if path := strings.TrimSpace(options[optTypeMappingsFile]); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read type mappings file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &fromFile); err != nil {
				return nil, fmt.Errorf("parse type mappings file %s: %w", path, err)
			}
		default:
			if err := json.Unmarshal(data, &fromFile); err != nil {
				return nil, fmt.Errorf("parse type mappings file %s: %w", path, err)
			}
		}
	}

	if raw := strings.TrimSpace(options[optTypeMappings]); raw != "" {
		inline := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &inline); err != nil {
			return nil, fmt.Errorf("parse inline type mappings: %w", err)
		}
		fromFile = MergeTypeMappings(fromFile, inline)
	}

	return normalizeTypeMappings(fromFile), nil
}

// MergeTypeMappings overlays overrides onto base without mutating either.
func MergeTypeMappings(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// WithOverrides returns a dialect config whose type mappings include the
// given overrides.
func (d DialectConfig) WithOverrides(overrides map[string]string) DialectConfig {
	if len(overrides) == 0 {
		return d
	}
	d.TypeMappings = MergeTypeMappings(d.TypeMappings, normalizeTypeMappings(overrides))
	return d
}

func normalizeTypeMappings(mappings map[string]string) map[string]string {
	if len(mappings) == 0 {
		return mappings
	}
	normalized := make(map[string]string, len(mappings))
	for k, v := range mappings {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		normalized[key] = strings.TrimSpace(v)
	}
	return normalized
}
