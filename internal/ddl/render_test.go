package ddl

import (
	"reflect"
	"testing"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

var orders = drift.TableID{Namespace: "public", Name: "orders"}

func TestRenderAddColumnClickHouseKeepsPosition(t *testing.T) {
	event := drift.AddColumn{
		TableID: orders,
		Column:  catalog.Column{Name: "score", Type: catalog.DataType{Kind: catalog.TypeInt32}},
		After:   "id",
	}
	statements, err := Render(event, DialectConfigFor(DialectClickHouse))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"ALTER TABLE `public`.`orders` ADD COLUMN `score` Int32 NOT NULL AFTER `id`"}
	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("expected %v, got %v", want, statements)
	}
}

func TestRenderAddColumnPostgresDropsPosition(t *testing.T) {
	event := drift.AddColumn{
		TableID: orders,
		Column:  catalog.Column{Name: "score", Type: catalog.DataType{Kind: catalog.TypeInt32}, Nullable: true},
		First:   true,
	}
	statements, err := Render(event, DialectConfigFor(DialectPostgres))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{`ALTER TABLE "public"."orders" ADD COLUMN "score" integer`}
	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("expected %v, got %v", want, statements)
	}
}

func TestRenderChangeColumnPureRenameEmitsSingleStatement(t *testing.T) {
	event := drift.ChangeColumn{TableID: orders, From: "score", Column: catalog.Column{Name: "points"}}
	statements, err := Render(event, DialectConfigFor(DialectDuckDB))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{`ALTER TABLE "public"."orders" RENAME COLUMN "score" TO "points"`}
	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("expected %v, got %v", want, statements)
	}
}

func TestRenderChangeColumnWithRetypeEmitsAlter(t *testing.T) {
	event := drift.ChangeColumn{
		TableID: orders,
		From:    "score",
		Column:  catalog.Column{Name: "points", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}
	statements, err := Render(event, DialectConfigFor(DialectSnowflake))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(statements) != 2 {
		t.Fatalf("expected rename plus alter, got %v", statements)
	}
	if statements[1] != `ALTER TABLE "public"."orders" ALTER COLUMN "points" SET DATA TYPE NUMBER(19,0)` {
		t.Fatalf("unexpected alter statement: %s", statements[1])
	}
}

func TestRenderBatchPreservesOrder(t *testing.T) {
	batch := drift.Batch{TableID: orders, Events: []drift.ColumnEvent{
		drift.DropColumn{TableID: orders, Name: "legacy"},
		drift.AddColumn{TableID: orders, Column: catalog.Column{Name: "note", Type: catalog.DataType{Kind: catalog.TypeString}, Nullable: true}},
	}}
	statements, err := Render(batch, DialectConfigFor(DialectPostgres))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{
		`ALTER TABLE "public"."orders" DROP COLUMN "legacy"`,
		`ALTER TABLE "public"."orders" ADD COLUMN "note" text`,
	}
	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("expected %v, got %v", want, statements)
	}
}

func TestRenderModifyWithUnsetTypeFails(t *testing.T) {
	event := drift.ModifyColumn{TableID: orders, Column: catalog.Column{Name: "score"}}
	if _, err := Render(event, DialectConfigFor(DialectPostgres)); err == nil {
		t.Fatalf("expected error for unset type")
	}
}

func TestTypeForVarcharLength(t *testing.T) {
	dialect := DialectConfigFor(DialectPostgres)
	got, err := dialect.typeFor(catalog.DataType{Kind: catalog.TypeString, Length: 32})
	if err != nil {
		t.Fatalf("typeFor: %v", err)
	}
	if got != "varchar(32)" {
		t.Fatalf("expected varchar(32), got %s", got)
	}
}

func TestWithOverridesWins(t *testing.T) {
	dialect := DialectConfigFor(DialectSnowflake).WithOverrides(map[string]string{"string": "STRING"})
	got, err := dialect.typeFor(catalog.DataType{Kind: catalog.TypeString})
	if err != nil {
		t.Fatalf("typeFor: %v", err)
	}
	if got != "STRING" {
		t.Fatalf("expected override STRING, got %s", got)
	}
}

func TestLoadTypeMappingsInlineOverFile(t *testing.T) {
	mappings, err := LoadTypeMappings(map[string]string{
		optTypeMappings: `{"decimal":"NUMERIC","String":" TEXT "}`,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if mappings["decimal"] != "NUMERIC" {
		t.Fatalf("expected decimal mapping, got %q", mappings["decimal"])
	}
	if mappings["string"] != "TEXT" {
		t.Fatalf("expected normalized key and trimmed value, got %q", mappings["string"])
	}
}
