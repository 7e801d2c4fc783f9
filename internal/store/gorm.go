package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spotatlas/spotatlasgo/internal/database"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of the application database.
type GormStore struct {
	db *database.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a Store backed by the given database.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

// Fetch implements Store.
func (s *GormStore) Fetch(ctx context.Context, preds []Predicate) ([]models.Spot, error) {
	q := s.db.WithContext(ctx).Model(&models.Spot{})
	for _, p := range preds {
		switch p.Op {
		case "eq":
			q = q.Where(fmt.Sprintf("%s = ?", p.Field), p.Value)
		case "ne":
			q = q.Where(fmt.Sprintf("%s <> ?", p.Field), p.Value)
		default:
			return nil, fmt.Errorf("unsupported predicate op: %s", p.Op)
		}
	}

	var spots []models.Spot
	if err := q.Order("name, address").Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch spots: %w", err)
	}
	return spots, nil
}

// Save implements Store.
func (s *GormStore) Save(ctx context.Context, spot *models.Spot) error {
	if err := s.db.WithContext(ctx).Save(spot).Error; err != nil {
		return fmt.Errorf("failed to save spot %s: %w", spot.ID, err)
	}
	return nil
}

// Delete implements Store.
func (s *GormStore) Delete(ctx context.Context, spot *models.Spot) error {
	if err := s.db.WithContext(ctx).Delete(spot).Error; err != nil {
		return fmt.Errorf("failed to delete spot %s: %w", spot.ID, err)
	}
	return nil
}

// FindByID implements Store.
func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Spot, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindByRemoteID implements Store.
func (s *GormStore) FindByRemoteID(ctx context.Context, remoteID string) (*models.Spot, error) {
	return s.findOne(ctx, "remote_id = ?", remoteID)
}

// FindByNaturalKey implements Store. The match is case-sensitive exact,
// which postgres gives us for free.
func (s *GormStore) FindByNaturalKey(ctx context.Context, name, address string) (*models.Spot, error) {
	return s.findOne(ctx, "name = ? AND address = ?", name, address)
}

func (s *GormStore) findOne(ctx context.Context, query string, args ...interface{}) (*models.Spot, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).Where(query, args...).First(&spot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("spot lookup failed: %w", err)
	}
	return &spot, nil
}

// NeedingUpload implements Store: spots never uploaded, or modified since
// their last successful upload.
func (s *GormStore) NeedingUpload(ctx context.Context) ([]models.Spot, error) {
	var spots []models.Spot
	err := s.db.WithContext(ctx).
		Where("synced_at IS NULL OR last_modified > synced_at").
		Order("last_modified").
		Find(&spots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload candidates: %w", err)
	}
	return spots, nil
}

// LinkRemote implements Store with a column-scoped UPDATE, so a row
// edited while a sync batch was in flight keeps its attributes.
func (s *GormStore) LinkRemote(ctx context.Context, spotID, remoteID string, syncedAt *time.Time) error {
	cols := map[string]interface{}{"remote_id": remoteID}
	if syncedAt != nil {
		cols["synced_at"] = *syncedAt
	}
	res := s.db.WithContext(ctx).Model(&models.Spot{}).Where("id = ?", spotID).UpdateColumns(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to link spot %s to record %s: %w", spotID, remoteID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("spot %s not found", spotID)
	}
	return nil
}

// Checkpoint implements Store.
func (s *GormStore) Checkpoint(ctx context.Context, key string) (string, bool, error) {
	var cp models.SyncCheckpoint
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("checkpoint lookup failed: %w", err)
	}
	return cp.Value, true, nil
}

// SetCheckpoint implements Store.
func (s *GormStore) SetCheckpoint(ctx context.Context, key, value string) error {
	cp := models.SyncCheckpoint{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&cp).Error
	if err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", key, err)
	}
	return nil
}
