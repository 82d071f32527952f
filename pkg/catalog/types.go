package catalog

import "fmt"

// TypeKind identifies a logical column type, independent of any source or sink
// dialect spelling.
type TypeKind string

const (
	TypeBoolean   TypeKind = "boolean"
	TypeInt8      TypeKind = "int8"
	TypeInt16     TypeKind = "int16"
	TypeInt32     TypeKind = "int32"
	TypeInt64     TypeKind = "int64"
	TypeFloat32   TypeKind = "float32"
	TypeFloat64   TypeKind = "float64"
	TypeDecimal   TypeKind = "decimal"
	TypeString    TypeKind = "string"
	TypeBytes     TypeKind = "bytes"
	TypeDate      TypeKind = "date"
	TypeTime      TypeKind = "time"
	TypeTimestamp TypeKind = "timestamp"
)

// DataType describes a column's logical type. The zero value means the type is
// unset, which pure column renames use to signal "inherit the old type".
type DataType struct {
	Kind      TypeKind `json:"kind" yaml:"kind"`
	Length    int      `json:"length,omitempty" yaml:"length,omitempty"`
	Precision int      `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int      `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// IsUnset reports whether the type carries no information.
func (d DataType) IsUnset() bool {
	return d.Kind == ""
}

func (d DataType) String() string {
	switch {
	case d.IsUnset():
		return "unset"
	case d.Kind == TypeDecimal && d.Precision > 0:
		return fmt.Sprintf("%s(%d,%d)", d.Kind, d.Precision, d.Scale)
	case d.Length > 0:
		return fmt.Sprintf("%s(%d)", d.Kind, d.Length)
	default:
		return string(d.Kind)
	}
}
