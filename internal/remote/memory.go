package remote

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Store used by tests and the sync simulation
// tool. It mimics the backend's idempotent save semantics: saving an ID
// that already exists updates the record in place.
type Memory struct {
	mu           sync.Mutex
	records      map[string]Record
	availability Availability

	// SaveInterceptor, when set, is consulted per record before the save
	// is applied. Returning a non-nil result short-circuits the save,
	// which lets tests inject conflicts and transient failures.
	SaveInterceptor func(Record) *SaveResult

	// QueryErr, when set, is returned by Query.
	QueryErr error

	saveBatchCalls int
}

// NewMemory creates an empty in-memory store reporting Available.
func NewMemory() *Memory {
	return &Memory{
		records:      make(map[string]Record),
		availability: Available,
	}
}

var _ Store = (*Memory)(nil)

// SetAvailability overrides the availability the store reports.
func (m *Memory) SetAvailability(a Availability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availability = a
}

// Put seeds a record directly, bypassing save semantics.
func (m *Memory) Put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
}

// Get returns a stored record by ID.
func (m *Memory) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// SaveBatchCalls returns how many SaveBatch invocations were made.
func (m *Memory) SaveBatchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveBatchCalls
}

// CheckAvailability implements Store.
func (m *Memory) CheckAvailability(ctx context.Context) (Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availability, nil
}

// Query implements Store. Records come back sorted by ID so passes are
// deterministic.
func (m *Memory) Query(ctx context.Context, recordType string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveBatch implements Store.
func (m *Memory) SaveBatch(ctx context.Context, recordType string, records []Record) ([]SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveBatchCalls++

	results := make([]SaveResult, 0, len(records))
	for _, r := range records {
		if m.SaveInterceptor != nil {
			if res := m.SaveInterceptor(r); res != nil {
				results = append(results, *res)
				continue
			}
		}
		m.records[r.ID] = r
		results = append(results, SaveResult{ID: r.ID, Status: SaveStatusSaved})
	}
	return results, nil
}

// DeleteBatch implements Store.
func (m *Memory) DeleteBatch(ctx context.Context, recordType string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.records, id)
	}
	return nil
}
