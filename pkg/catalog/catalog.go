package catalog

// Column defines a single field of a table schema. Columns are values; anything
// that "modifies" a column produces a new one.
type Column struct {
	Name string   `json:"name" yaml:"name"`
	Type DataType `json:"type" yaml:"type"`
	// SourceType is the raw upstream type text, possibly parameterized,
	// e.g. "VARCHAR(10)". Empty when the source did not report one.
	SourceType string `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	Nullable   bool   `json:"nullable" yaml:"nullable"`
	Default    any    `json:"default,omitempty" yaml:"default,omitempty"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// WithType returns a copy of the column with the given data type filled in.
func (c Column) WithType(t DataType) Column {
	c.Type = t
	return c
}

// PrimaryKey names the columns forming a table's primary key.
type PrimaryKey struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
}

// ConstraintKind identifies a secondary constraint type.
type ConstraintKind string

const (
	ConstraintUnique ConstraintKind = "unique"
	ConstraintIndex  ConstraintKind = "index"
)

// ConstraintKey describes a secondary key constraint on a table.
type ConstraintKey struct {
	Name    string         `json:"name" yaml:"name"`
	Kind    ConstraintKind `json:"kind" yaml:"kind"`
	Columns []string       `json:"columns" yaml:"columns"`
}

// TableSchema is an ordered column list plus key metadata. Column order is
// semantically significant: it is the physical column order downstream sinks
// lay out. Column names are unique within a schema.
type TableSchema struct {
	Columns        []Column        `json:"columns" yaml:"columns"`
	PrimaryKey     *PrimaryKey     `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ConstraintKeys []ConstraintKey `json:"constraint_keys,omitempty" yaml:"constraint_keys,omitempty"`
}

// New builds a schema from a column sequence, carrying over key metadata. The
// column slice is copied so later appends by the caller cannot alias into the
// schema.
func New(columns []Column, primaryKey *PrimaryKey, constraintKeys []ConstraintKey) TableSchema {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return TableSchema{
		Columns:        cols,
		PrimaryKey:     primaryKey,
		ConstraintKeys: constraintKeys,
	}
}

// FieldNames returns the column names in schema order.
func (s TableSchema) FieldNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// IndexOf returns the position of the named column, or -1 when absent.
func (s TableSchema) IndexOf(name string) int {
	for i, col := range s.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column and whether it exists.
func (s TableSchema) Column(name string) (Column, bool) {
	if i := s.IndexOf(name); i >= 0 {
		return s.Columns[i], true
	}
	return Column{}, false
}
