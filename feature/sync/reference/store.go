package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-sync/feature/sync/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValueStore persists the id <-> label pairs of reference fields.
type ValueStore interface {
	Label(ctx context.Context, fieldID, remoteID string) (string, bool, error)
	ID(ctx context.Context, fieldID, label string) (string, bool, error)
	Put(ctx context.Context, fieldID, remoteID, label string) error
}

// Store is the gorm implementation of ValueStore.
type Store struct {
	db *gorm.DB
}

// NewStore creates a reference value store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the reference value table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.ReferenceValue{})
}

// Label returns the cached label of a remote id.
func (s *Store) Label(ctx context.Context, fieldID, remoteID string) (string, bool, error) {
	var row models.ReferenceValue
	err := s.db.WithContext(ctx).
		Where("field_id = ? AND remote_value_id = ?", fieldID, remoteID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read reference label: %w", err)
	}
	return row.DisplayLabel, true, nil
}

// ID returns the cached remote id of a label. Matching is case-sensitive.
func (s *Store) ID(ctx context.Context, fieldID, label string) (string, bool, error) {
	var rows []models.ReferenceValue
	err := s.db.WithContext(ctx).
		Where("field_id = ? AND display_label = ?", fieldID, label).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return "", false, fmt.Errorf("failed to read reference id: %w", err)
	}
	// Some collations compare case-insensitively.
	for _, row := range rows {
		if row.DisplayLabel == label {
			return row.RemoteValueID, true, nil
		}
	}
	return "", false, nil
}

// Put stores or refreshes a pair.
func (s *Store) Put(ctx context.Context, fieldID, remoteID, label string) error {
	row := models.ReferenceValue{
		FieldID:       fieldID,
		RemoteValueID: remoteID,
		DisplayLabel:  label,
		UpdatedAt:     time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "field_id"}, {Name: "remote_value_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_label", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store reference value: %w", err)
	}
	return nil
}
