package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rating bounds for the 1-5 scale used by both rating fields.
const (
	RatingMin     = 1
	RatingMax     = 5
	RatingDefault = 3
)

// Spot represents one catalog entry: a place the user has saved or
// discovered. The (Name, Address) pair is the natural key used to link
// records that arrive from the cloud without a local counterpart.
type Spot struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string         `gorm:"not null;index:idx_spots_natural_key,priority:1" json:"name"`
	Address   string         `gorm:"index:idx_spots_natural_key,priority:2" json:"address"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Rating    int            `gorm:"default:3" json:"rating"`
	Price     int            `gorm:"default:0" json:"price"`
	Visited   bool           `gorm:"default:false" json:"visited"`
	Favorite  bool           `gorm:"default:false" json:"favorite"`
	Notes     string         `gorm:"type:text" json:"notes"`
	PhotoRef  string         `gorm:"type:varchar(255)" json:"photo_ref"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Sync metadata
	// LastModified is the conflict-comparison timestamp. It is bumped by
	// every user-visible mutation, not by GORM's own UpdatedAt, because
	// the two can diverge (e.g. sync bookkeeping writes).
	LastModified time.Time      `gorm:"index" json:"last_modified"`
	RemoteID     *string        `gorm:"uniqueIndex;type:varchar(64)" json:"remote_id,omitempty"`
	SyncedAt     *time.Time     `json:"synced_at,omitempty"`
	Enrichment   datatypes.JSON `gorm:"type:jsonb" json:"enrichment,omitempty"`
}

// TableName specifies the table name for Spot model
func (Spot) TableName() string {
	return "spots"
}

// Touch marks the spot as locally modified now.
func (s *Spot) Touch() {
	s.LastModified = time.Now().UTC()
}

// Linked reports whether the spot has a cloud counterpart.
func (s *Spot) Linked() bool {
	return s.RemoteID != nil && *s.RemoteID != ""
}

// NeedsUpload reports whether the spot has local changes the cloud has
// not seen: never uploaded, or modified since the last successful upload.
func (s *Spot) NeedsUpload() bool {
	if s.SyncedAt == nil {
		return true
	}
	return s.LastModified.After(*s.SyncedAt)
}
