// Package store is the local persistence layer for the spot catalog.
// The sync engine depends only on the Store interface; the GORM
// implementation backs production and Memory backs tests.
package store

import (
	"context"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/models"
)

// Predicate is one conjunctive condition over a named column. Op is "eq"
// or "ne"; predicates passed together are ANDed.
type Predicate struct {
	Field string
	Op    string
	Value interface{}
}

// Eq builds an equality predicate.
func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: "eq", Value: value}
}

// Ne builds an inequality predicate.
func Ne(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: "ne", Value: value}
}

// Store is the local catalog store. Find methods return (nil, nil) when
// no row matches; an error always means the lookup itself failed.
type Store interface {
	Fetch(ctx context.Context, preds []Predicate) ([]models.Spot, error)
	Save(ctx context.Context, spot *models.Spot) error
	Delete(ctx context.Context, spot *models.Spot) error

	FindByID(ctx context.Context, id string) (*models.Spot, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*models.Spot, error)
	FindByNaturalKey(ctx context.Context, name, address string) (*models.Spot, error)
	NeedingUpload(ctx context.Context) ([]models.Spot, error)

	// LinkRemote updates only the sync bookkeeping columns of a spot:
	// remote_id, and synced_at when non-nil. Attribute columns are left
	// untouched, so an edit racing a sync pass is never overwritten.
	LinkRemote(ctx context.Context, spotID, remoteID string, syncedAt *time.Time) error

	Checkpoint(ctx context.Context, key string) (string, bool, error)
	SetCheckpoint(ctx context.Context, key, value string) error
}
