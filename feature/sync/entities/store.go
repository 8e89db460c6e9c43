package entities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-sync/core/utils"
	"crm-sync/feature/sync/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Window bounds the last update date of entities to push. Nil bounds are open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Store is the local contact and company store.
type Store struct {
	db *gorm.DB
	// keys holds the local field name of the natural key per kind.
	keys map[models.Kind]string
}

// NewStore creates an entity store. keys names the local natural key field of each kind.
func NewStore(db *gorm.DB, keys map[models.Kind]string) *Store {
	return &Store{db: db, keys: keys}
}

// Migrate creates the entity table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.Entity{})
}

// NaturalKey returns the normalized natural key of an entity.
func (s *Store) NaturalKey(e *models.Entity) string {
	return utils.NormalizeKey(e.Value(s.keys[models.Kind(e.Kind)]))
}

// Get returns an entity, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, kind models.Kind, id uint) (*models.Entity, error) {
	var e models.Entity
	err := s.db.WithContext(ctx).Where("id = ? AND kind = ?", id, string(kind)).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", kind, id, err)
	}
	return &e, nil
}

// Create stores a new entity with the given fields.
func (s *Store) Create(ctx context.Context, kind models.Kind, fields map[string]any) (*models.Entity, error) {
	e := &models.Entity{Kind: string(kind), Fields: datatypes.JSONMap{}}
	s.SetFieldValues(e, fields)
	e.NaturalKey = s.NaturalKey(e)
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}
	return e, nil
}

// SetFieldValues merges values into the entity without saving it.
func (s *Store) SetFieldValues(e *models.Entity, fields map[string]any) {
	if e.Fields == nil {
		e.Fields = datatypes.JSONMap{}
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
}

// Save persists an entity.
func (s *Store) Save(ctx context.Context, e *models.Entity) error {
	e.NaturalKey = s.NaturalKey(e)
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("failed to save %s %d: %w", e.Kind, e.ID, err)
	}
	return nil
}

// Edit applies a local change and marks the fields for the next push.
func (s *Store) Edit(ctx context.Context, e *models.Entity, fields map[string]any) error {
	s.SetFieldValues(e, fields)
	seen := make(map[string]struct{}, len(e.Pushable))
	for _, f := range e.Pushable {
		seen[f] = struct{}{}
	}
	for k := range fields {
		if _, ok := seen[k]; !ok {
			e.Pushable = append(e.Pushable, k)
			seen[k] = struct{}{}
		}
	}
	return s.Save(ctx, e)
}

// MarkPushed clears the pushable marks of an entity.
func (s *Store) MarkPushed(ctx context.Context, e *models.Entity) error {
	e.Pushable = datatypes.JSONSlice[string]{}
	err := s.db.WithContext(ctx).Model(e).UpdateColumn("pushable", e.Pushable).Error
	if err != nil {
		return fmt.Errorf("failed to mark %s %d pushed: %w", e.Kind, e.ID, err)
	}
	return nil
}

func (s *Store) windowed(ctx context.Context, kind models.Kind, w Window) *gorm.DB {
	q := s.db.WithContext(ctx).Where("sync_entities.kind = ?", string(kind))
	if w.Start != nil {
		q = q.Where("sync_entities.updated_at >= ?", *w.Start)
	}
	if w.End != nil {
		q = q.Where("sync_entities.updated_at <= ?", *w.End)
	}
	return q.Order("sync_entities.id")
}

func (s *Store) linkQuery(integration string, kind models.Kind) *gorm.DB {
	return s.db.Model(&models.LinkRow{}).Select("1").
		Where("sync_links.local_entity_id = sync_entities.id AND sync_links.integration = ? AND sync_links.kind = ?", integration, string(kind))
}

// EntitiesToUpdate returns linked entities in the window with at least one
// pushable field among fieldsUsed. A limit of 0 returns all of them.
func (s *Store) EntitiesToUpdate(ctx context.Context, integration string, kind models.Kind, w Window, fieldsUsed []string, limit int) ([]*models.Entity, error) {
	var rows []*models.Entity
	err := s.windowed(ctx, kind, w).
		Where("EXISTS (?)", s.linkQuery(integration, kind)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s to update: %w", kind, err)
	}

	used := make(map[string]struct{}, len(fieldsUsed))
	for _, f := range fieldsUsed {
		used[f] = struct{}{}
	}

	out := make([]*models.Entity, 0, len(rows))
	for _, e := range rows {
		if !hasAny(e.Pushable, used) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func hasAny(fields []string, set map[string]struct{}) bool {
	for _, f := range fields {
		if _, ok := set[f]; ok {
			return true
		}
	}
	return false
}

// EntitiesToCreate returns entities in the window without a link.
func (s *Store) EntitiesToCreate(ctx context.Context, integration string, kind models.Kind, w Window, limit int) ([]*models.Entity, error) {
	q := s.windowed(ctx, kind, w).Where("NOT EXISTS (?)", s.linkQuery(integration, kind))
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []*models.Entity
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s to create: %w", kind, err)
	}
	return rows, nil
}

// FindUnlinked returns the oldest entity of a kind whose natural key matches
// key and that has no link for integration, or nil.
func (s *Store) FindUnlinked(ctx context.Context, integration string, kind models.Kind, key string) (*models.Entity, error) {
	key = utils.NormalizeKey(key)
	if key == "" {
		return nil, nil
	}
	var e models.Entity
	err := s.db.WithContext(ctx).
		Where("sync_entities.kind = ? AND sync_entities.natural_key = ?", string(kind), key).
		Where("NOT EXISTS (?)", s.linkQuery(integration, kind)).
		Order("sync_entities.id").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unlinked %s %q: %w", kind, key, err)
	}
	return &e, nil
}

// FindOrCreateCompany returns the company whose natural key matches name,
// creating it when missing.
func (s *Store) FindOrCreateCompany(ctx context.Context, name string) (*models.Entity, error) {
	key := utils.NormalizeKey(name)
	if key == "" {
		return nil, fmt.Errorf("company name is required")
	}

	var e models.Entity
	err := s.db.WithContext(ctx).
		Where("kind = ? AND natural_key = ?", string(models.KindCompany), key).
		Order("id").
		First(&e).Error
	if err == nil {
		return &e, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find company %q: %w", name, err)
	}
	return s.Create(ctx, models.KindCompany, map[string]any{s.keys[models.KindCompany]: name})
}

// AddToCompany associates a contact with a company.
func (s *Store) AddToCompany(ctx context.Context, contact, company *models.Entity) error {
	if contact.CompanyID != nil && *contact.CompanyID == company.ID {
		return nil
	}
	contact.CompanyID = &company.ID
	err := s.db.WithContext(ctx).Model(contact).UpdateColumn("company_id", company.ID).Error
	if err != nil {
		return fmt.Errorf("failed to add contact %d to company %d: %w", contact.ID, company.ID, err)
	}
	return nil
}

// IDs returns the ids of every entity of a kind.
func (s *Store) IDs(ctx context.Context, kind models.Kind) (map[uint]struct{}, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Entity{}).
		Where("kind = ?", string(kind)).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", kind, err)
	}
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
