package ddl

import (
	"fmt"
	"strings"

	"github.com/josephjohncox/driftline/pkg/catalog"
)

// Dialect identifies a downstream SQL dialect.
type Dialect string

const (
	DialectPostgres   Dialect = "postgres"
	DialectClickHouse Dialect = "clickhouse"
	DialectDuckDB     Dialect = "duckdb"
	DialectSnowflake  Dialect = "snowflake"
)

// DialectConfig describes SQL formatting for a destination.
type DialectConfig struct {
	Name               Dialect
	Quote              string
	AddColumnTemplate  string
	DropColumnTemplate string
	RenameColumnTpl    string
	AlterTypeTemplate  string
	RenameTableTpl     string
	// SupportsPosition marks dialects whose ADD/MODIFY COLUMN accepts
	// FIRST/AFTER clauses. Others receive the statement without the clause;
	// physical order then only lives in the registry schema.
	SupportsPosition bool
	// VarcharTemplate renders a length-parameterized string type; empty means
	// the dialect ignores string lengths.
	VarcharTemplate string
	TypeMappings    map[string]string
}

func DialectConfigFor(d Dialect) DialectConfig {
	switch d {
	case DialectClickHouse:
		return DialectConfig{
			Name:               d,
			Quote:              "`",
			AddColumnTemplate:  "ALTER TABLE %s ADD COLUMN %s",
			DropColumnTemplate: "ALTER TABLE %s DROP COLUMN %s",
			RenameColumnTpl:    "ALTER TABLE %s RENAME COLUMN %s TO %s",
			AlterTypeTemplate:  "ALTER TABLE %s MODIFY COLUMN %s %s",
			RenameTableTpl:     "RENAME TABLE %s TO %s",
			SupportsPosition:   true,
			TypeMappings: map[string]string{
				"boolean": "Bool", "int8": "Int8", "int16": "Int16",
				"int32": "Int32", "int64": "Int64", "float32": "Float32",
				"float64": "Float64", "decimal": "Decimal(%d, %d)",
				"string": "String", "bytes": "String", "date": "Date32",
				"time": "String", "timestamp": "DateTime64(6)",
			},
		}
	case DialectDuckDB:
		return DialectConfig{
			Name:               d,
			Quote:              "\"",
			AddColumnTemplate:  "ALTER TABLE %s ADD COLUMN %s",
			DropColumnTemplate: "ALTER TABLE %s DROP COLUMN %s",
			RenameColumnTpl:    "ALTER TABLE %s RENAME COLUMN %s TO %s",
			AlterTypeTemplate:  "ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s",
			RenameTableTpl:     "ALTER TABLE %s RENAME TO %s",
			VarcharTemplate:    "VARCHAR(%d)",
			TypeMappings: map[string]string{
				"boolean": "BOOLEAN", "int8": "TINYINT", "int16": "SMALLINT",
				"int32": "INTEGER", "int64": "BIGINT", "float32": "FLOAT",
				"float64": "DOUBLE", "decimal": "DECIMAL(%d, %d)",
				"string": "VARCHAR", "bytes": "BLOB", "date": "DATE",
				"time": "TIME", "timestamp": "TIMESTAMP",
			},
		}
	case DialectSnowflake:
		return DialectConfig{
			Name:               d,
			Quote:              "\"",
			AddColumnTemplate:  "ALTER TABLE %s ADD COLUMN %s",
			DropColumnTemplate: "ALTER TABLE %s DROP COLUMN %s",
			RenameColumnTpl:    "ALTER TABLE %s RENAME COLUMN %s TO %s",
			AlterTypeTemplate:  "ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s",
			RenameTableTpl:     "ALTER TABLE %s RENAME TO %s",
			VarcharTemplate:    "VARCHAR(%d)",
			TypeMappings: map[string]string{
				"boolean": "BOOLEAN", "int8": "NUMBER(3,0)", "int16": "NUMBER(5,0)",
				"int32": "NUMBER(10,0)", "int64": "NUMBER(19,0)", "float32": "FLOAT",
				"float64": "FLOAT", "decimal": "NUMBER(%d, %d)",
				"string": "VARCHAR", "bytes": "BINARY", "date": "DATE",
				"time": "TIME", "timestamp": "TIMESTAMP_NTZ",
			},
		}
	default:
		return DialectConfig{
			Name:               DialectPostgres,
			Quote:              "\"",
			AddColumnTemplate:  "ALTER TABLE %s ADD COLUMN %s",
			DropColumnTemplate: "ALTER TABLE %s DROP COLUMN %s",
			RenameColumnTpl:    "ALTER TABLE %s RENAME COLUMN %s TO %s",
			AlterTypeTemplate:  "ALTER TABLE %s ALTER COLUMN %s TYPE %s",
			RenameTableTpl:     "ALTER TABLE %s RENAME TO %s",
			VarcharTemplate:    "varchar(%d)",
			TypeMappings: map[string]string{
				"boolean": "boolean", "int8": "smallint", "int16": "smallint",
				"int32": "integer", "int64": "bigint", "float32": "real",
				"float64": "double precision", "decimal": "numeric(%d, %d)",
				"string": "text", "bytes": "bytea", "date": "date",
				"time": "time", "timestamp": "timestamptz",
			},
		}
	}
}

func (d DialectConfig) quoteIdent(name string) string {
	return d.Quote + strings.ReplaceAll(name, d.Quote, d.Quote+d.Quote) + d.Quote
}

func (d DialectConfig) quoteTable(namespace, name string) string {
	if namespace == "" {
		return d.quoteIdent(name)
	}
	return d.quoteIdent(namespace) + "." + d.quoteIdent(name)
}

// typeFor maps a logical data type to the dialect spelling, honoring any
// overrides merged into the config.
func (d DialectConfig) typeFor(t catalog.DataType) (string, error) {
	if t.IsUnset() {
		return "", fmt.Errorf("render type for dialect %s: type is unset", d.Name)
	}
	mapped, ok := d.TypeMappings[string(t.Kind)]
	if !ok {
		return "", fmt.Errorf("render type for dialect %s: no mapping for %s", d.Name, t.Kind)
	}
	if t.Kind == catalog.TypeDecimal && strings.Contains(mapped, "%d") {
		precision := t.Precision
		if precision == 0 {
			precision = 38
		}
		return fmt.Sprintf(mapped, precision, t.Scale), nil
	}
	if t.Kind == catalog.TypeString && t.Length > 0 && d.VarcharTemplate != "" {
		return fmt.Sprintf(d.VarcharTemplate, t.Length), nil
	}
	return mapped, nil
}
