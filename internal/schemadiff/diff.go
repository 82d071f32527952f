package schemadiff

import (
	"strings"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

// Diff compares two ordered schema snapshots and returns the drift events that
// take the old schema to the new one. Drops come first so adds can anchor on
// the surviving layout; adds carry First/After positioning derived from the
// new column order. Column names are matched case-insensitively, the way
// upstream catalogs fold identifiers; a surviving column whose spelling
// changed is renamed, so later After anchors resolve against the spelling the
// folded schema actually carries.
func Diff(table drift.TableID, oldSchema, newSchema catalog.TableSchema) drift.Batch {
	oldByName := indexByName(oldSchema)
	newByName := indexByName(newSchema)

	events := make([]drift.ColumnEvent, 0)

	for _, oldCol := range oldSchema.Columns {
		key := normalizeName(oldCol.Name)
		if key == "" {
			continue
		}
		if _, ok := newByName[key]; !ok {
			events = append(events, drift.DropColumn{TableID: table, Name: oldCol.Name})
		}
	}

	for i, newCol := range newSchema.Columns {
		key := normalizeName(newCol.Name)
		if key == "" {
			continue
		}
		oldCol, existed := oldByName[key]
		if !existed {
			event := drift.AddColumn{TableID: table, Column: newCol}
			if i == 0 {
				event.First = true
			} else {
				event.After = newSchema.Columns[i-1].Name
			}
			events = append(events, event)
			continue
		}
		if oldCol.Name != newCol.Name {
			events = append(events, drift.ChangeColumn{TableID: table, From: oldCol.Name, Column: newCol})
			continue
		}
		if columnChanged(oldCol, newCol) {
			events = append(events, drift.ModifyColumn{TableID: table, Column: newCol})
		}
	}

	return drift.Batch{TableID: table, Events: events}
}

func columnChanged(oldCol, newCol catalog.Column) bool {
	if oldCol.Type != newCol.Type {
		return true
	}
	if oldCol.SourceType != newCol.SourceType {
		return true
	}
	return oldCol.Nullable != newCol.Nullable
}

func indexByName(schema catalog.TableSchema) map[string]catalog.Column {
	byName := make(map[string]catalog.Column, len(schema.Columns))
	for _, col := range schema.Columns {
		key := normalizeName(col.Name)
		if key == "" {
			continue
		}
		byName[key] = col
	}
	return byName
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
