package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josephjohncox/driftline/internal/registry"
	"github.com/josephjohncox/driftline/internal/schemadiff"
	"github.com/josephjohncox/driftline/internal/telemetry"
	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

// CatalogScanner polls information_schema to detect drift against the last
// registered schema versions. Detected drift is folded through a handler and
// both the event batch and the resulting schema version land in the registry.
type CatalogScanner struct {
	Pool     *pgxpool.Pool
	Registry registry.Store
	Schemas  []string
	Service  string

	last map[drift.TableID]snapshot
}

type snapshot struct {
	version int64
	schema  catalog.TableSchema
}

func (c *CatalogScanner) RunOnce(ctx context.Context) error {
	if c.Pool == nil {
		return errors.New("catalog scanner requires a pool")
	}
	if c.Registry == nil {
		return nil
	}

	ctx, span := telemetry.Tracer(c.Service).Start(ctx, "scanner.RunOnce")
	defer span.End()

	current, err := c.scan(ctx)
	if err != nil {
		return err
	}
	if c.last == nil {
		c.last = map[drift.TableID]snapshot{}
	}
	c.pruneDropped(current)

	for table, newSchema := range current {
		previous, seen := c.last[table]
		if !seen {
			seeded, err := c.seed(ctx, table, newSchema)
			if err != nil {
				return err
			}
			c.last[table] = seeded
			previous = seeded
			if !seeded.changedFrom(newSchema) {
				continue
			}
		}

		batch := schemadiff.Diff(table, previous.schema, newSchema)
		if len(batch.Events) == 0 {
			continue
		}

		handler := drift.NewHandler(previous.schema)
		next, effects, err := handler.Apply(batch)
		if err != nil {
			return fmt.Errorf("apply drift for %s: %w", table, err)
		}

		if _, err := c.Registry.RecordDrift(ctx, table, batch, effects.TypeChanged); err != nil {
			return err
		}
		version := previous.version + 1
		if err := c.Registry.RegisterSchema(ctx, table, version, next); err != nil {
			return err
		}
		c.last[table] = snapshot{version: version, schema: next}
	}

	return nil
}

// pruneDropped forgets tables absent from the latest catalog snapshot, so a
// table dropped and later recreated reseeds instead of diffing against its
// pre-drop layout.
func (c *CatalogScanner) pruneDropped(current map[drift.TableID]catalog.TableSchema) {
	for table := range c.last {
		if _, ok := current[table]; !ok {
			delete(c.last, table)
		}
	}
}

// seed resolves the baseline for a table first seen by this scanner: the
// registry's latest version if present, else the live schema as version 1.
func (c *CatalogScanner) seed(ctx context.Context, table drift.TableID, live catalog.TableSchema) (snapshot, error) {
	stored, version, err := c.Registry.LatestSchema(ctx, table)
	if err == nil {
		return snapshot{version: version, schema: stored}, nil
	}
	if !errors.Is(err, registry.ErrNotFound) {
		return snapshot{}, err
	}
	if err := c.Registry.RegisterSchema(ctx, table, 1, live); err != nil {
		return snapshot{}, err
	}
	return snapshot{version: 1, schema: live}, nil
}

func (s snapshot) changedFrom(live catalog.TableSchema) bool {
	return len(schemadiff.Diff(drift.TableID{}, s.schema, live).Events) > 0
}

func (c *CatalogScanner) scan(ctx context.Context) (map[drift.TableID]catalog.TableSchema, error) {
	schemas := c.Schemas
	if len(schemas) == 0 {
		schemas = []string{"public"}
	}

	rows, err := c.Pool.Query(ctx,
		`SELECT table_schema, table_name, column_name, is_nullable, data_type,
		        COALESCE(character_maximum_length, 0),
		        COALESCE(numeric_precision, 0),
		        COALESCE(numeric_scale, 0)
		 FROM information_schema.columns
		 WHERE table_schema = ANY($1::text[])
		 ORDER BY table_schema, table_name, ordinal_position`, schemas)
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	defer rows.Close()

	columns := make(map[drift.TableID][]catalog.Column)
	order := make([]drift.TableID, 0)
	for rows.Next() {
		var namespace, table, column, nullable, dataType string
		var maxLength, precision, scale int
		if err := rows.Scan(&namespace, &table, &column, &nullable, &dataType, &maxLength, &precision, &scale); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		id := drift.TableID{Namespace: namespace, Name: table}
		if _, seen := columns[id]; !seen {
			order = append(order, id)
		}
		columns[id] = append(columns[id], catalog.Column{
			Name:       column,
			Type:       parseDataType(dataType, maxLength, precision, scale),
			SourceType: sourceTypeText(dataType, maxLength, precision, scale),
			Nullable:   strings.EqualFold(nullable, "YES"),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}

	result := make(map[drift.TableID]catalog.TableSchema, len(order))
	for _, id := range order {
		result[id] = catalog.New(columns[id], nil, nil)
	}
	return result, nil
}
