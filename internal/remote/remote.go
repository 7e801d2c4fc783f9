// Package remote talks to the cloud record store that mirrors the local
// spot catalog. The production backend speaks XML-RPC; tests and the sync
// simulation tool use the in-memory implementation.
package remote

import (
	"context"
	"time"
)

// RecordType is the single record collection tracked by sync.
const RecordType = "spot"

// Availability describes whether the cloud store can be synced against.
type Availability string

const (
	Available              Availability = "available"
	NoAccount              Availability = "no_account"
	Restricted             Availability = "restricted"
	TemporarilyUnavailable Availability = "temporarily_unavailable"
	Unknown                Availability = "unknown"
)

// Record is one spot as stored in the cloud, keyed by a server-assigned
// identifier. LastModified is stamped by the writer at write time and is
// the only field conflict resolution compares; the store's own row
// timestamps are never used for that.
type Record struct {
	ID           string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	Rating       int
	Price        int
	Visited      bool
	Favorite     bool
	Notes        string
	PhotoRef     string
	LastModified time.Time
	LocalRef     string
}

// SaveStatus classifies the per-record outcome of a batch save.
type SaveStatus string

const (
	SaveStatusSaved     SaveStatus = "saved"
	SaveStatusConflict  SaveStatus = "conflict"
	SaveStatusTransient SaveStatus = "transient"
	SaveStatusPermanent SaveStatus = "permanent"
)

// SaveResult is the server's verdict on one record of a batch.
type SaveResult struct {
	ID     string
	Status SaveStatus
	Reason string
}

// Store is the cloud record store collaborator. Implementations must make
// SaveBatch idempotent with respect to record IDs: saving the same ID
// twice updates, never duplicates.
type Store interface {
	CheckAvailability(ctx context.Context) (Availability, error)
	Query(ctx context.Context, recordType string) ([]Record, error)
	SaveBatch(ctx context.Context, recordType string, records []Record) ([]SaveResult, error)
	DeleteBatch(ctx context.Context, recordType string, ids []string) error
}
