package reconcile

import (
	"context"

	"crm-sync/core/config"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
)

// DefaultBatchSize is the bulk write ceiling of the remote API.
const DefaultBatchSize = 100

// Result counts what a run did.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

func (r Result) fields() []zap.Field {
	return []zap.Field{
		zap.Int("created", r.Created),
		zap.Int("updated", r.Updated),
		zap.Int("skipped", r.Skipped),
	}
}

// Options configures a reconciler.
type Options struct {
	Integration string
	BatchSize   int
	Mapping     config.Mapping
}

// Reconciler synchronizes local entities with remote records.
type Reconciler struct {
	schema   SchemaSource
	records  RecordSource
	mapper   RecordMapper
	writer   RecordWriter
	links    LinkStore
	entities EntityStore
	logger   *zap.Logger
	opts     Options
}

// New creates a reconciler.
func New(schema SchemaSource, records RecordSource, mapper RecordMapper, writer RecordWriter,
	links LinkStore, entities EntityStore, logger *zap.Logger, opts Options) *Reconciler {
	if opts.BatchSize <= 0 || opts.BatchSize > DefaultBatchSize {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Mapping == nil {
		opts.Mapping = config.Mapping{}
	}
	return &Reconciler{
		schema:   schema,
		records:  records,
		mapper:   mapper,
		writer:   writer,
		links:    links,
		entities: entities,
		logger:   logger,
		opts:     opts,
	}
}

// WithLogger returns a copy of the reconciler logging to l.
func (r *Reconciler) WithLogger(l *zap.Logger) *Reconciler {
	cp := *r
	cp.logger = l
	return &cp
}

func (r *Reconciler) fieldMap(ctx context.Context, kind models.Kind) (models.FieldSet, fieldMap, error) {
	fields, err := r.schema.Fields(ctx, kind)
	if err != nil {
		return nil, fieldMap{}, err
	}
	// Remote-wins lists apply even when the kind has no field mapping.
	km, ok := r.opts.Mapping.For(string(kind))
	return fields, newFieldMap(km, ok, fields), nil
}

// finish logs the outcome of a run.
func (r *Reconciler) finish(direction string, kind models.Kind, res Result, err error) (Result, error) {
	fields := append(res.fields(), zap.String("direction", direction), zap.String("kind", string(kind)))
	if err != nil {
		r.logger.Error("Sync run stopped", append(fields, zap.Error(err))...)
		return res, err
	}
	r.logger.Info("Sync run finished", fields...)
	return res, nil
}
