package scanner

import (
	"strconv"
	"strings"

	"github.com/josephjohncox/driftline/pkg/catalog"
)

// parseDataType maps an information_schema data_type (plus length/precision
// metadata) to a logical type. Unknown types fall back to string so a new
// upstream type degrades instead of halting the scan.
func parseDataType(dataType string, maxLength, precision, scale int) catalog.DataType {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "boolean":
		return catalog.DataType{Kind: catalog.TypeBoolean}
	case "smallint", "int2":
		return catalog.DataType{Kind: catalog.TypeInt16}
	case "integer", "int4":
		return catalog.DataType{Kind: catalog.TypeInt32}
	case "bigint", "int8":
		return catalog.DataType{Kind: catalog.TypeInt64}
	case "real", "float4":
		return catalog.DataType{Kind: catalog.TypeFloat32}
	case "double precision", "float8":
		return catalog.DataType{Kind: catalog.TypeFloat64}
	case "numeric", "decimal":
		return catalog.DataType{Kind: catalog.TypeDecimal, Precision: precision, Scale: scale}
	case "character varying", "varchar", "character", "char":
		return catalog.DataType{Kind: catalog.TypeString, Length: maxLength}
	case "text", "name", "uuid", "json", "jsonb", "xml":
		return catalog.DataType{Kind: catalog.TypeString}
	case "bytea":
		return catalog.DataType{Kind: catalog.TypeBytes}
	case "date":
		return catalog.DataType{Kind: catalog.TypeDate}
	case "time", "time without time zone", "time with time zone":
		return catalog.DataType{Kind: catalog.TypeTime}
	case "timestamp", "timestamp without time zone", "timestamp with time zone", "timestamptz":
		return catalog.DataType{Kind: catalog.TypeTimestamp}
	default:
		return catalog.DataType{Kind: catalog.TypeString}
	}
}

// sourceTypeText rebuilds the raw parameterized type text the way the source
// reports it, e.g. "character varying(10)".
func sourceTypeText(dataType string, maxLength, precision, scale int) string {
	base := strings.ToLower(strings.TrimSpace(dataType))
	switch base {
	case "character varying", "varchar", "character", "char":
		if maxLength > 0 {
			return base + "(" + strconv.Itoa(maxLength) + ")"
		}
	case "numeric", "decimal":
		if precision > 0 {
			return base + "(" + strconv.Itoa(precision) + "," + strconv.Itoa(scale) + ")"
		}
	}
	return base
}
