package reconcile

import (
	"context"

	"crm-sync/core/remote"
	"crm-sync/feature/sync/entities"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"
)

// SchemaSource provides the field set of a kind.
type SchemaSource interface {
	Fields(ctx context.Context, kind models.Kind) (models.FieldSet, error)
}

// RecordSource pages through remote records.
type RecordSource interface {
	Pull(ctx context.Context, kind models.Kind, q pager.Query, fn func(records []*remote.Record, cursor pager.Cursor) error) (int, error)
	FindOne(ctx context.Context, kind models.Kind, field, value string) (*remote.Record, error)
}

// RecordMapper converts remote records to value maps and back.
type RecordMapper interface {
	ToLocalValues(ctx context.Context, rec *remote.Record, kind models.Kind, fields models.FieldSet) (map[string]any, error)
	ApplyValues(ctx context.Context, rec *remote.Record, values map[string]any, kind models.Kind, fields models.FieldSet, isUpdate bool) (int, error)
}

// RecordWriter performs bulk remote writes.
type RecordWriter interface {
	AddList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error)
	UpdateList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error)
}

// LinkStore persists link rows.
type LinkStore interface {
	FindByRemoteID(ctx context.Context, integration string, kind models.Kind, remoteID string) (*models.LinkRow, error)
	FindByLocalID(ctx context.Context, integration string, kind models.Kind, localID uint) (*models.LinkRow, error)
	Save(ctx context.Context, rows ...*models.LinkRow) error
	Touch(ctx context.Context, row *models.LinkRow) error
}

// EntityStore is the local entity store.
type EntityStore interface {
	Get(ctx context.Context, kind models.Kind, id uint) (*models.Entity, error)
	Create(ctx context.Context, kind models.Kind, fields map[string]any) (*models.Entity, error)
	SetFieldValues(e *models.Entity, fields map[string]any)
	Save(ctx context.Context, e *models.Entity) error
	MarkPushed(ctx context.Context, e *models.Entity) error
	NaturalKey(e *models.Entity) string
	EntitiesToUpdate(ctx context.Context, integration string, kind models.Kind, w entities.Window, fieldsUsed []string, limit int) ([]*models.Entity, error)
	FindUnlinked(ctx context.Context, integration string, kind models.Kind, key string) (*models.Entity, error)
	EntitiesToCreate(ctx context.Context, integration string, kind models.Kind, w entities.Window, limit int) ([]*models.Entity, error)
	FindOrCreateCompany(ctx context.Context, name string) (*models.Entity, error)
	AddToCompany(ctx context.Context, contact, company *models.Entity) error
}
