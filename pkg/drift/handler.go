package drift

import (
	"fmt"
	"strings"

	"github.com/josephjohncox/driftline/pkg/catalog"
)

// Effects reports observable side information from applying an event, beyond
// the new schema itself.
type Effects struct {
	// TypeChanged is set when a ModifyColumn switched the column's base source
	// type (the token before any parameter list), which downstream sinks treat
	// as destructive. "VARCHAR(10)" to "VARCHAR(20)" is not a type change;
	// "VARCHAR(10)" to "INT" is. For a Batch it ORs across members.
	TypeChanged bool
	// TableRenamed carries the new table name after a RenameTable event.
	TableRenamed string
}

// Handler binds a current table schema to the fold that applies schema change
// events. Apply never rebinds: the caller persists the returned schema and
// calls Reset before the next event. A Handler is owned by a single goroutine
// per table.
type Handler struct {
	schema catalog.TableSchema
}

// NewHandler returns a handler bound to the given schema.
func NewHandler(schema catalog.TableSchema) *Handler {
	return &Handler{schema: schema}
}

// Schema returns the currently bound schema.
func (h *Handler) Schema() catalog.TableSchema {
	return h.schema
}

// Reset rebinds the handler to a schema and returns the handler for chaining.
func (h *Handler) Reset(schema catalog.TableSchema) *Handler {
	h.schema = schema
	return h
}

// Apply computes the schema resulting from one event (or an ordered batch)
// against the bound schema. The bound schema is never mutated; on error the
// previously bound schema remains the last valid state.
func (h *Handler) Apply(event Event) (catalog.TableSchema, Effects, error) {
	return apply(h.schema, event)
}

func apply(schema catalog.TableSchema, event Event) (catalog.TableSchema, Effects, error) {
	switch e := event.(type) {
	case RenameTable:
		return schema, Effects{TableRenamed: e.To}, nil
	case DropColumn:
		return applyDrop(schema, e), Effects{}, nil
	case AddColumn:
		return applyAdd(schema, e)
	case ModifyColumn:
		return applyModify(schema, e)
	case ChangeColumn:
		return applyChange(schema, e)
	case Batch:
		return applyBatch(schema, e)
	default:
		return catalog.TableSchema{}, Effects{}, &UnsupportedEventError{Event: event}
	}
}

func applyBatch(schema catalog.TableSchema, batch Batch) (catalog.TableSchema, Effects, error) {
	current := schema
	var combined Effects
	for _, event := range batch.Events {
		next, effects, err := apply(current, event)
		if err != nil {
			return catalog.TableSchema{}, Effects{}, err
		}
		combined.TypeChanged = combined.TypeChanged || effects.TypeChanged
		current = next
	}
	return current, combined, nil
}

func applyDrop(schema catalog.TableSchema, event DropColumn) catalog.TableSchema {
	columns := make([]catalog.Column, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		if col.Name != event.Name {
			columns = append(columns, col)
		}
	}
	return catalog.New(columns, schema.PrimaryKey, schema.ConstraintKeys)
}

func applyAdd(schema catalog.TableSchema, event AddColumn) (catalog.TableSchema, Effects, error) {
	column := event.Column
	if schema.IndexOf(column.Name) >= 0 {
		// Adding an existing name is a replace plus reposition, keeping
		// column names unique.
		return applyModify(schema, ModifyColumn{
			TableID: event.TableID,
			Column:  column,
			First:   event.First,
			After:   event.After,
		})
	}

	columns := make([]catalog.Column, 0, len(schema.Columns)+1)
	switch {
	case event.First:
		columns = append(columns, column)
		columns = append(columns, schema.Columns...)
	case event.After != "":
		index := schema.IndexOf(event.After)
		if index < 0 {
			return catalog.TableSchema{}, Effects{}, fmt.Errorf("add column %q after %q: %w", column.Name, event.After, ErrColumnNotFound)
		}
		columns = append(columns, schema.Columns[:index+1]...)
		columns = append(columns, column)
		columns = append(columns, schema.Columns[index+1:]...)
	default:
		columns = append(columns, schema.Columns...)
		columns = append(columns, column)
	}
	return catalog.New(columns, schema.PrimaryKey, schema.ConstraintKeys), Effects{}, nil
}

func applyModify(schema catalog.TableSchema, event ModifyColumn) (catalog.TableSchema, Effects, error) {
	index := schema.IndexOf(event.Column.Name)
	if index < 0 {
		// Tolerate replayed drift streams: modifying a missing column is a
		// no-op, unlike ChangeColumn where a missing rename target fails.
		return schema, Effects{}, nil
	}

	effects := Effects{
		TypeChanged: baseTypeChanged(schema.Columns[index].SourceType, event.Column.SourceType),
	}
	next, err := replaceAt(schema, index, event.Column, event.First, event.After)
	if err != nil {
		return catalog.TableSchema{}, Effects{}, err
	}
	return next, effects, nil
}

func applyChange(schema catalog.TableSchema, event ChangeColumn) (catalog.TableSchema, Effects, error) {
	index := schema.IndexOf(event.From)
	if index < 0 {
		return catalog.TableSchema{}, Effects{}, fmt.Errorf("change column %q: %w", event.From, ErrColumnNotFound)
	}

	column := event.Column
	if column.Type.IsUnset() {
		// A pure rename carries only the old and new names; the type follows
		// the column being renamed.
		column = column.WithType(schema.Columns[index].Type)
	}

	next, err := replaceAt(schema, index, column, event.First, event.After)
	if err != nil {
		return catalog.TableSchema{}, Effects{}, err
	}
	return next, Effects{}, nil
}

// replaceAt substitutes the column at index. First and after are explicit
// moves that change column order; without either the replacement is in place
// and every other position is untouched.
func replaceAt(schema catalog.TableSchema, index int, column catalog.Column, first bool, after string) (catalog.TableSchema, error) {
	columns := make([]catalog.Column, len(schema.Columns))
	copy(columns, schema.Columns)

	switch {
	case first:
		columns = append(columns[:index], columns[index+1:]...)
		columns = append([]catalog.Column{column}, columns...)
	case after != "":
		columns = append(columns[:index], columns[index+1:]...)
		anchor := -1
		for i, col := range columns {
			if col.Name == after {
				anchor = i
				break
			}
		}
		if anchor < 0 {
			return catalog.TableSchema{}, fmt.Errorf("move column %q after %q: %w", column.Name, after, ErrColumnNotFound)
		}
		columns = append(columns[:anchor+1], append([]catalog.Column{column}, columns[anchor+1:]...)...)
	default:
		columns[index] = column
	}

	return catalog.New(columns, schema.PrimaryKey, schema.ConstraintKeys), nil
}

// baseTypeChanged compares the base type tokens of two raw source type
// strings, ignoring any parameter list.
func baseTypeChanged(oldSourceType, newSourceType string) bool {
	if oldSourceType == "" || newSourceType == "" {
		return false
	}
	oldBase, _, _ := strings.Cut(oldSourceType, "(")
	newBase, _, _ := strings.Cut(newSourceType, "(")
	return oldBase != newBase
}
