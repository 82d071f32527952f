package flow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Definition describes one drift-propagation pipeline: where schemas are
// watched and which dialect downstream DDL is rendered for.
type Definition struct {
	Name    string     `yaml:"name" validate:"required"`
	Source  SourceSpec `yaml:"source" validate:"required"`
	Dialect string     `yaml:"dialect" validate:"omitempty,oneof=postgres clickhouse duckdb snowflake"`
	// Schemas limits the catalog scan; empty means public only.
	Schemas      []string          `yaml:"schemas"`
	TypeMappings map[string]string `yaml:"type_mappings"`
}

// SourceSpec points at the upstream database whose catalog is watched.
type SourceSpec struct {
	DSN string `yaml:"dsn" validate:"required"`
}

var validate = validator.New()

// Load reads and validates a pipeline definition from a YAML file.
func Load(fs afero.Fs, path string) (Definition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Definition{}, fmt.Errorf("read pipeline definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse pipeline definition %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks required fields and enum values.
func (d Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("validate pipeline %q: %w", d.Name, err)
	}
	return nil
}
