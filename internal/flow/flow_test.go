package flow

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestLoadValidDefinition(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := `
name: orders-drift
source:
  dsn: postgres://localhost:5432/app
dialect: clickhouse
schemas: [public, billing]
type_mappings:
  string: String
`
	if err := afero.WriteFile(fs, "pipeline.yaml", []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	def, err := Load(fs, "pipeline.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.Name != "orders-drift" || def.Dialect != "clickhouse" {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if len(def.Schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %v", def.Schemas)
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "pipeline.yaml", []byte("name: broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(fs, "pipeline.yaml"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsUnknownDialect(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := "name: p\nsource:\n  dsn: postgres://x\ndialect: oracle\n"
	if err := afero.WriteFile(fs, "pipeline.yaml", []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(fs, "pipeline.yaml")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "Dialect") {
		t.Fatalf("expected dialect validation failure, got %v", err)
	}
}
