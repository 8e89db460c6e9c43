package links

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-sync/feature/sync/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists link rows.
type Store struct {
	db *gorm.DB
}

// NewStore creates a link store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the link table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.LinkRow{})
}

// FindByRemoteID returns the link of a remote record, or nil.
func (s *Store) FindByRemoteID(ctx context.Context, integration string, kind models.Kind, remoteID string) (*models.LinkRow, error) {
	return s.first(ctx, "integration = ? AND kind = ? AND remote_record_id = ?", integration, string(kind), remoteID)
}

// FindByLocalID returns the link of a local entity, or nil.
func (s *Store) FindByLocalID(ctx context.Context, integration string, kind models.Kind, localID uint) (*models.LinkRow, error) {
	return s.first(ctx, "integration = ? AND kind = ? AND local_entity_id = ?", integration, string(kind), localID)
}

func (s *Store) first(ctx context.Context, query string, args ...any) (*models.LinkRow, error) {
	var row models.LinkRow
	err := s.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read link: %w", err)
	}
	return &row, nil
}

// Save upserts rows by (integration, kind, remote id). An existing row keeps
// its local id and creation date and gets the new last sync date.
func (s *Store) Save(ctx context.Context, rows ...*models.LinkRow) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.LastSyncAt.IsZero() {
			row.LastSyncAt = now
		}
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "integration"}, {Name: "kind"}, {Name: "remote_record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_sync_at"}),
	}).Create(rows).Error
	if err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// Touch refreshes the last sync date of a link.
func (s *Store) Touch(ctx context.Context, row *models.LinkRow) error {
	row.LastSyncAt = time.Now()
	err := s.db.WithContext(ctx).Model(&models.LinkRow{}).
		Where("id = ?", row.ID).
		Update("last_sync_at", row.LastSyncAt).Error
	if err != nil {
		return fmt.Errorf("failed to touch link: %w", err)
	}
	return nil
}

// LinkedLocalIDs returns the local ids linked for a kind.
func (s *Store) LinkedLocalIDs(ctx context.Context, integration string, kind models.Kind) (map[uint]string, error) {
	var rows []models.LinkRow
	err := s.db.WithContext(ctx).
		Where("integration = ? AND kind = ?", integration, string(kind)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	out := make(map[uint]string, len(rows))
	for _, row := range rows {
		out[row.LocalEntityID] = row.RemoteRecordID
	}
	return out, nil
}

// Delete removes the links of the given remote records and returns how many rows went away.
func (s *Store) Delete(ctx context.Context, integration string, kind models.Kind, remoteIDs ...string) (int64, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("integration = ? AND kind = ? AND remote_record_id IN ?", integration, string(kind), remoteIDs).
		Delete(&models.LinkRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete links: %w", res.Error)
	}
	return res.RowsAffected, nil
}
