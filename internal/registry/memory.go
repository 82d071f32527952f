package registry

import (
	"context"
	"sync"
	"time"

	"github.com/josephjohncox/driftline/pkg/catalog"
	"github.com/josephjohncox/driftline/pkg/drift"
)

// MemoryStore keeps registry data in process. Used by tests and by pipelines
// that run without a Postgres DSN.
type MemoryStore struct {
	mu       sync.Mutex
	schemas  map[drift.TableID][]memorySchema
	drift    map[drift.TableID][]DriftRecord
	driftSeq int64
}

type memorySchema struct {
	version int64
	schema  catalog.TableSchema
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schemas: make(map[drift.TableID][]memorySchema),
		drift:   make(map[drift.TableID][]DriftRecord),
	}
}

func (m *MemoryStore) RegisterSchema(_ context.Context, table drift.TableID, version int64, schema catalog.TableSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.schemas[table] {
		if existing.version == version {
			return nil
		}
	}
	m.schemas[table] = append(m.schemas[table], memorySchema{version: version, schema: schema})
	return nil
}

func (m *MemoryStore) LatestSchema(_ context.Context, table drift.TableID) (catalog.TableSchema, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.schemas[table]
	if len(versions) == 0 {
		return catalog.TableSchema{}, 0, ErrNotFound
	}
	latest := versions[0]
	for _, candidate := range versions[1:] {
		if candidate.version > latest.version {
			latest = candidate
		}
	}
	return latest.schema, latest.version, nil
}

func (m *MemoryStore) RecordDrift(_ context.Context, table drift.TableID, event drift.Event, typeChanged bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driftSeq++
	m.drift[table] = append(m.drift[table], DriftRecord{
		ID:          m.driftSeq,
		Table:       table,
		Event:       event,
		TypeChanged: typeChanged,
		CreatedAt:   time.Now().UTC(),
	})
	return m.driftSeq, nil
}

func (m *MemoryStore) ListDrift(_ context.Context, table drift.TableID) ([]DriftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]DriftRecord, len(m.drift[table]))
	copy(records, m.drift[table])
	return records, nil
}
