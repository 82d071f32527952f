package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const schemaYAML = `
columns:
  - name: id
    type: {kind: int64}
    source_type: BIGINT
  - name: name
    type: {kind: string}
    source_type: VARCHAR(64)
`

const eventsYAML = `
- kind: add_column
  table: {namespace: public, name: widgets}
  column:
    name: score
    type: {kind: int32}
  after: id
- kind: drop_column
  table: {namespace: public, name: widgets}
  name: name
`

func runAdmin(t *testing.T, fs afero.Fs, args ...string) string {
	t.Helper()
	command := newAdminCommand(fs)
	out := &bytes.Buffer{}
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs(args)
	if err := command.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestApplyCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "schema.yaml", []byte(schemaYAML), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	if err := afero.WriteFile(fs, "events.yaml", []byte(eventsYAML), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}

	out := runAdmin(t, fs, "apply", "--schema", "schema.yaml", "--events", "events.yaml")
	if !strings.Contains(out, "score") {
		t.Fatalf("expected score column in output:\n%s", out)
	}
	if strings.Contains(out, "VARCHAR(64)") {
		t.Fatalf("expected dropped column gone from output:\n%s", out)
	}
}

func TestRenderCommandClickHouse(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "events.yaml", []byte(eventsYAML), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}

	out := runAdmin(t, fs, "render", "--events", "events.yaml", "--dialect", "clickhouse")
	if !strings.Contains(out, "ADD COLUMN `score` Int32 NOT NULL AFTER `id`;") {
		t.Fatalf("expected positioned add column, got:\n%s", out)
	}
	if !strings.Contains(out, "DROP COLUMN `name`;") {
		t.Fatalf("expected drop column, got:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	pipeline := "name: orders\nsource:\n  dsn: postgres://localhost/app\ndialect: duckdb\n"
	if err := afero.WriteFile(fs, "pipeline.yaml", []byte(pipeline), 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}

	out := runAdmin(t, fs, "check", "--pipeline", "pipeline.yaml")
	if !strings.Contains(out, `pipeline "orders" ok`) {
		t.Fatalf("expected ok message, got:\n%s", out)
	}
}
