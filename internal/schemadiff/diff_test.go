package schemadiff

import (
	"reflect"
	"testing"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

var widgets = drift.TableID{Namespace: "public", Name: "widgets"}

func TestDiffEmitsDropAddModifyInOrder(t *testing.T) {
	oldSchema := catalog.New([]catalog.Column{
		{Name: "z", Type: catalog.DataType{Kind: catalog.TypeInt32}},
		{Name: "a", Type: catalog.DataType{Kind: catalog.TypeString}, Nullable: true},
	}, nil, nil)
	newSchema := catalog.New([]catalog.Column{
		{Name: "a", Type: catalog.DataType{Kind: catalog.TypeString}, Nullable: true},
		{Name: "z", Type: catalog.DataType{Kind: catalog.TypeInt64}},
		{Name: "newcol", Type: catalog.DataType{Kind: catalog.TypeBytes}, Nullable: true},
	}, nil, nil)

	batch := Diff(widgets, oldSchema, newSchema)
	kinds := make([]drift.Kind, 0, len(batch.Events))
	for _, event := range batch.Events {
		kinds = append(kinds, event.Kind())
	}
	want := []drift.Kind{drift.KindModifyColumn, drift.KindAddColumn}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}

	add, ok := batch.Events[1].(drift.AddColumn)
	if !ok {
		t.Fatalf("expected AddColumn, got %T", batch.Events[1])
	}
	if add.After != "z" {
		t.Fatalf("expected newcol anchored after z, got %q", add.After)
	}
}

func TestDiffAnchorsFirstColumnWithFirst(t *testing.T) {
	oldSchema := catalog.New([]catalog.Column{
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}, nil, nil)
	newSchema := catalog.New([]catalog.Column{
		{Name: "tenant", Type: catalog.DataType{Kind: catalog.TypeString}},
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}, nil, nil)

	batch := Diff(widgets, oldSchema, newSchema)
	if len(batch.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch.Events))
	}
	add, ok := batch.Events[0].(drift.AddColumn)
	if !ok {
		t.Fatalf("expected AddColumn, got %T", batch.Events[0])
	}
	if !add.First || add.After != "" {
		t.Fatalf("expected First positioning, got first=%v after=%q", add.First, add.After)
	}
}

func TestDiffRoundTripsThroughHandler(t *testing.T) {
	oldSchema := catalog.New([]catalog.Column{
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
		{Name: "name", Type: catalog.DataType{Kind: catalog.TypeString}},
		{Name: "stale", Type: catalog.DataType{Kind: catalog.TypeBoolean}},
	}, nil, nil)
	newSchema := catalog.New([]catalog.Column{
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
		{Name: "score", Type: catalog.DataType{Kind: catalog.TypeInt32}},
		{Name: "name", Type: catalog.DataType{Kind: catalog.TypeString}},
	}, nil, nil)

	batch := Diff(widgets, oldSchema, newSchema)
	applied, _, err := drift.NewHandler(oldSchema).Apply(batch)
	if err != nil {
		t.Fatalf("apply diff batch: %v", err)
	}
	if !reflect.DeepEqual(applied.FieldNames(), newSchema.FieldNames()) {
		t.Fatalf("expected %v after applying diff, got %v", newSchema.FieldNames(), applied.FieldNames())
	}
}

func TestDiffRenamesRespelledColumn(t *testing.T) {
	oldSchema := catalog.New([]catalog.Column{
		{Name: "ID", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}, nil, nil)
	newSchema := catalog.New([]catalog.Column{
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}, nil, nil)

	batch := Diff(widgets, oldSchema, newSchema)
	if len(batch.Events) != 1 {
		t.Fatalf("expected 1 event for a case-only rename, got %d", len(batch.Events))
	}
	change, ok := batch.Events[0].(drift.ChangeColumn)
	if !ok {
		t.Fatalf("expected ChangeColumn, got %T", batch.Events[0])
	}
	if change.From != "ID" || change.Column.Name != "id" {
		t.Fatalf("expected rename ID to id, got %q to %q", change.From, change.Column.Name)
	}
}

func TestDiffBatchAppliesAcrossRespelledAnchor(t *testing.T) {
	oldSchema := catalog.New([]catalog.Column{
		{Name: "ID", Type: catalog.DataType{Kind: catalog.TypeInt64}},
	}, nil, nil)
	newSchema := catalog.New([]catalog.Column{
		{Name: "id", Type: catalog.DataType{Kind: catalog.TypeInt64}},
		{Name: "x", Type: catalog.DataType{Kind: catalog.TypeString}},
	}, nil, nil)

	batch := Diff(widgets, oldSchema, newSchema)
	applied, _, err := drift.NewHandler(oldSchema).Apply(batch)
	if err != nil {
		t.Fatalf("apply diff batch: %v", err)
	}
	if !reflect.DeepEqual(applied.FieldNames(), newSchema.FieldNames()) {
		t.Fatalf("expected %v after applying diff, got %v", newSchema.FieldNames(), applied.FieldNames())
	}
}
