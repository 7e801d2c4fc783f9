package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/models"
)

// Memory is an in-memory Store used by tests and the sync simulation
// tool. It enforces the same remote-ID uniqueness the database schema
// does.
type Memory struct {
	mu          sync.Mutex
	spots       map[string]models.Spot
	checkpoints map[string]string

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		spots:       make(map[string]models.Spot),
		checkpoints: make(map[string]string),
	}
}

var _ Store = (*Memory)(nil)

// Len returns the number of stored spots.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spots)
}

// Fetch implements Store. Only the predicate fields the sync engine and
// handlers actually query are understood.
func (m *Memory) Fetch(ctx context.Context, preds []Predicate) ([]models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Spot
	for _, spot := range m.spots {
		if matches(spot, preds) {
			out = append(out, spot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Address < out[j].Address
	})
	return out, nil
}

func matches(spot models.Spot, preds []Predicate) bool {
	for _, p := range preds {
		var field interface{}
		switch p.Field {
		case "id":
			field = spot.ID
		case "name":
			field = spot.Name
		case "address":
			field = spot.Address
		case "visited":
			field = spot.Visited
		case "favorite":
			field = spot.Favorite
		default:
			return false
		}
		eq := field == p.Value
		if p.Op == "eq" && !eq {
			return false
		}
		if p.Op == "ne" && eq {
			return false
		}
	}
	return true
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, spot *models.Spot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}

	if spot.Linked() {
		for id, existing := range m.spots {
			if id == spot.ID {
				continue
			}
			if existing.Linked() && *existing.RemoteID == *spot.RemoteID {
				return fmt.Errorf("remote_id %s already claimed by spot %s", *spot.RemoteID, id)
			}
		}
	}

	m.spots[spot.ID] = *spot
	return nil
}

// LinkRemote implements Store. Only the sync bookkeeping fields of the
// stored copy are touched.
func (m *Memory) LinkRemote(ctx context.Context, spotID, remoteID string, syncedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	spot, ok := m.spots[spotID]
	if !ok {
		return fmt.Errorf("spot %s not found", spotID)
	}
	for id, existing := range m.spots {
		if id == spotID {
			continue
		}
		if existing.Linked() && *existing.RemoteID == remoteID {
			return fmt.Errorf("remote_id %s already claimed by spot %s", remoteID, id)
		}
	}
	spot.RemoteID = &remoteID
	if syncedAt != nil {
		stamp := *syncedAt
		spot.SyncedAt = &stamp
	}
	m.spots[spotID] = spot
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, spot *models.Spot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.spots, spot.ID)
	return nil
}

// FindByID implements Store.
func (m *Memory) FindByID(ctx context.Context, id string) (*models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if spot, ok := m.spots[id]; ok {
		return &spot, nil
	}
	return nil, nil
}

// FindByRemoteID implements Store.
func (m *Memory) FindByRemoteID(ctx context.Context, remoteID string) (*models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, spot := range m.spots {
		if spot.Linked() && *spot.RemoteID == remoteID {
			s := spot
			return &s, nil
		}
	}
	return nil, nil
}

// FindByNaturalKey implements Store (case-sensitive exact match).
func (m *Memory) FindByNaturalKey(ctx context.Context, name, address string) (*models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, spot := range m.spots {
		if spot.Name == name && spot.Address == address {
			s := spot
			return &s, nil
		}
	}
	return nil, nil
}

// NeedingUpload implements Store.
func (m *Memory) NeedingUpload(ctx context.Context) ([]models.Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Spot
	for _, spot := range m.spots {
		if spot.NeedsUpload() {
			out = append(out, spot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.Before(out[j].LastModified) })
	return out, nil
}

// Checkpoint implements Store.
func (m *Memory) Checkpoint(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.checkpoints[key]
	return v, ok, nil
}

// SetCheckpoint implements Store.
func (m *Memory) SetCheckpoint(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[key] = value
	return nil
}
