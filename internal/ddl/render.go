package ddl

import (
	"fmt"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

// Render translates a drift event into DDL statements for the target dialect.
// A Batch renders member by member, preserving order. Positioning clauses are
// emitted only for dialects that support them.
func Render(event drift.Event, dialect DialectConfig) ([]string, error) {
	table := dialect.quoteTable(event.Table().Namespace, event.Table().Name)

	switch e := event.(type) {
	case drift.RenameTable:
		return []string{fmt.Sprintf(dialect.RenameTableTpl, table, dialect.quoteIdent(e.To))}, nil

	case drift.DropColumn:
		return []string{fmt.Sprintf(dialect.DropColumnTemplate, table, dialect.quoteIdent(e.Name))}, nil

	case drift.AddColumn:
		def, err := columnDef(e.Column, dialect)
		if err != nil {
			return nil, fmt.Errorf("render add column %q: %w", e.Column.Name, err)
		}
		stmt := fmt.Sprintf(dialect.AddColumnTemplate, table, def)
		stmt += positionClause(dialect, e.First, e.After)
		return []string{stmt}, nil

	case drift.ModifyColumn:
		typeName, err := dialect.typeFor(e.Column.Type)
		if err != nil {
			return nil, fmt.Errorf("render modify column %q: %w", e.Column.Name, err)
		}
		stmt := fmt.Sprintf(dialect.AlterTypeTemplate, table, dialect.quoteIdent(e.Column.Name), typeName)
		stmt += positionClause(dialect, e.First, e.After)
		return []string{stmt}, nil

	case drift.ChangeColumn:
		statements := []string{
			fmt.Sprintf(dialect.RenameColumnTpl, table, dialect.quoteIdent(e.From), dialect.quoteIdent(e.Column.Name)),
		}
		// A pure rename carries an unset type; only an explicit retype emits
		// the extra alter.
		if !e.Column.Type.IsUnset() {
			typeName, err := dialect.typeFor(e.Column.Type)
			if err != nil {
				return nil, fmt.Errorf("render change column %q: %w", e.Column.Name, err)
			}
			stmt := fmt.Sprintf(dialect.AlterTypeTemplate, table, dialect.quoteIdent(e.Column.Name), typeName)
			stmt += positionClause(dialect, e.First, e.After)
			statements = append(statements, stmt)
		}
		return statements, nil

	case drift.Batch:
		statements := make([]string, 0, len(e.Events))
		for _, member := range e.Events {
			rendered, err := Render(member, dialect)
			if err != nil {
				return nil, err
			}
			statements = append(statements, rendered...)
		}
		return statements, nil

	default:
		return nil, &drift.UnsupportedEventError{Event: event}
	}
}

func columnDef(column catalog.Column, dialect DialectConfig) (string, error) {
	typeName, err := dialect.typeFor(column.Type)
	if err != nil {
		return "", err
	}
	def := dialect.quoteIdent(column.Name) + " " + typeName
	if !column.Nullable {
		def += " NOT NULL"
	}
	return def, nil
}

func positionClause(dialect DialectConfig, first bool, after string) string {
	if !dialect.SupportsPosition {
		return ""
	}
	switch {
	case first:
		return " FIRST"
	case after != "":
		return " AFTER " + dialect.quoteIdent(after)
	default:
		return ""
	}
}
