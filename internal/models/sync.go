package models

import "time"

// SyncCheckpoint stores sync bookkeeping as key-value pairs.
type SyncCheckpoint struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SyncCheckpoint model
func (SyncCheckpoint) TableName() string {
	return "sync_checkpoints"
}

// Checkpoint keys.
const (
	CheckpointLastSyncAt = "last_sync_at"
)
