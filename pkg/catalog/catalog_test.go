package catalog

import (
	"reflect"
	"testing"
)

func TestNewCopiesColumnSlice(t *testing.T) {
	columns := []Column{
		{Name: "id", Type: DataType{Kind: TypeInt64}},
		{Name: "name", Type: DataType{Kind: TypeString}},
	}
	schema := New(columns, nil, nil)
	columns[0].Name = "mutated"
	if schema.Columns[0].Name != "id" {
		t.Fatalf("expected schema isolated from caller slice, got %q", schema.Columns[0].Name)
	}
}

func TestIndexOfAndLookup(t *testing.T) {
	schema := New([]Column{
		{Name: "id", Type: DataType{Kind: TypeInt64}},
		{Name: "name", Type: DataType{Kind: TypeString}},
	}, nil, nil)

	if got := schema.IndexOf("name"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := schema.IndexOf("ghost"); got != -1 {
		t.Fatalf("expected -1 for missing column, got %d", got)
	}
	if _, ok := schema.Column("ghost"); ok {
		t.Fatalf("expected missing column lookup to fail")
	}
	if want := []string{"id", "name"}; !reflect.DeepEqual(schema.FieldNames(), want) {
		t.Fatalf("expected %v, got %v", want, schema.FieldNames())
	}
}

func TestDataTypeString(t *testing.T) {
	cases := []struct {
		in   DataType
		want string
	}{
		{DataType{}, "unset"},
		{DataType{Kind: TypeInt64}, "int64"},
		{DataType{Kind: TypeString, Length: 32}, "string(32)"},
		{DataType{Kind: TypeDecimal, Precision: 10, Scale: 2}, "decimal(10,2)"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
