package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

// ErrNotFound signals a missing registry entry.
var ErrNotFound = errors.New("registry entry not found")

// Store persists schema versions and the drift events that produced them.
type Store interface {
	RegisterSchema(ctx context.Context, table drift.TableID, version int64, schema catalog.TableSchema) error
	LatestSchema(ctx context.Context, table drift.TableID) (catalog.TableSchema, int64, error)
	RecordDrift(ctx context.Context, table drift.TableID, event drift.Event, typeChanged bool) (int64, error)
	ListDrift(ctx context.Context, table drift.TableID) ([]DriftRecord, error)
}

// DriftRecord is a stored drift event with its observed effects.
type DriftRecord struct {
	ID          int64
	Table       drift.TableID
	Event       drift.Event
	TypeChanged bool
	CreatedAt   time.Time
}

// PostgresStore stores registry data in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore runs registry migrations against the pool and returns the
// store. The caller owns the pool's lifetime.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("postgres pool is required")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) RegisterSchema(ctx context.Context, table drift.TableID, version int64, schema catalog.TableSchema) error {
	payload, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO schema_versions (namespace, name, version, schema_json)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, name, version) DO NOTHING`,
		table.Namespace, table.Name, version, payload,
	)
	if err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}
	return nil
}

func (p *PostgresStore) LatestSchema(ctx context.Context, table drift.TableID) (catalog.TableSchema, int64, error) {
	var payload []byte
	var version int64
	err := p.pool.QueryRow(ctx,
		`SELECT version, schema_json FROM schema_versions
		 WHERE namespace = $1 AND name = $2
		 ORDER BY version DESC LIMIT 1`,
		table.Namespace, table.Name,
	).Scan(&version, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.TableSchema{}, 0, ErrNotFound
		}
		return catalog.TableSchema{}, 0, fmt.Errorf("select latest schema: %w", err)
	}

	var schema catalog.TableSchema
	if err := json.Unmarshal(payload, &schema); err != nil {
		return catalog.TableSchema{}, 0, fmt.Errorf("unmarshal schema for %s: %w", table, err)
	}
	return schema, version, nil
}

func (p *PostgresStore) RecordDrift(ctx context.Context, table drift.TableID, event drift.Event, typeChanged bool) (int64, error) {
	payload, err := drift.Encode(event)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := p.pool.QueryRow(ctx,
		`INSERT INTO drift_events (namespace, name, event_json, type_changed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		table.Namespace, table.Name, payload, typeChanged,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert drift event: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) ListDrift(ctx context.Context, table drift.TableID) ([]DriftRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, event_json, type_changed, created_at FROM drift_events
		 WHERE namespace = $1 AND name = $2
		 ORDER BY id`,
		table.Namespace, table.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("list drift events: %w", err)
	}
	defer rows.Close()

	records := make([]DriftRecord, 0)
	for rows.Next() {
		record := DriftRecord{Table: table}
		var payload []byte
		if err := rows.Scan(&record.ID, &payload, &record.TypeChanged, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan drift event: %w", err)
		}
		event, err := drift.Decode(payload)
		if err != nil {
			return nil, err
		}
		record.Event = event
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drift events: %w", err)
	}

	return records, nil
}
