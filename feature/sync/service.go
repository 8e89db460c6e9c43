package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"crm-sync/core/config"
	"crm-sync/core/logger"
	"crm-sync/core/remote"
	"crm-sync/feature/sync/audit"
	"crm-sync/feature/sync/codec"
	"crm-sync/feature/sync/entities"
	"crm-sync/feature/sync/links"
	"crm-sync/feature/sync/mapper"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"
	"crm-sync/feature/sync/reconcile"
	"crm-sync/feature/sync/reference"
	"crm-sync/feature/sync/report"
	"crm-sync/feature/sync/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrObjectDisabled is returned for kinds missing from the enabled objects list.
	ErrObjectDisabled = errors.New("object kind is not enabled")
	// ErrLinkNotFound is returned when no link row matches a remote id.
	ErrLinkNotFound = errors.New("link not found")
)

// RunRequest selects the records of a pull or push. Without bounds and
// without FetchAll the configured window applies.
type RunRequest struct {
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	FetchAll bool       `json:"fetchAll"`
	Limit    int        `json:"limit"`
}

// Service runs sync operations.
type Service struct {
	cfg        config.SyncConfig
	schema     *schema.Cache
	reconciler *reconcile.Reconciler
	auditor    *audit.Auditor
	references *reference.Store
	links      *links.Store
	entities   *entities.Store
	archiver   *report.Archiver
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the sync engine. archiver may be nil to skip run reports.
func NewService(db *gorm.DB, client remote.Client, archiver *report.Archiver, cfg config.SyncConfig, mapping config.Mapping, logger *zap.Logger) (*Service, error) {
	remoteZone, err := cfg.Offset()
	if err != nil {
		return nil, err
	}
	localZone, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	refStore := reference.NewStore(db)
	linkStore := links.NewStore(db)
	entityStore := entities.NewStore(db, map[models.Kind]string{
		models.KindContact: reconcile.LocalKeyField(mapping, models.KindContact),
		models.KindCompany: reconcile.LocalKeyField(mapping, models.KindCompany),
	})

	cache := schema.NewCache(client, cfg.SchemaTTL(), logger)
	resolver := reference.NewResolver(client, refStore, logger)
	valueCodec := codec.New(resolver, remoteZone, localZone)
	records := pager.New(client, remoteZone, logger)

	rec := reconcile.New(
		cache,
		records,
		mapper.New(client, valueCodec, logger),
		client,
		linkStore,
		entityStore,
		logger,
		reconcile.Options{
			Integration: cfg.Integration,
			BatchSize:   cfg.BatchSize,
			Mapping:     mapping,
		},
	)

	return &Service{
		cfg:        cfg,
		schema:     cache,
		reconciler: rec,
		auditor:    audit.New(linkStore, entityStore, records, cfg.Integration, logger),
		references: refStore,
		links:      linkStore,
		entities:   entityStore,
		archiver:   archiver,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Migrate creates the sync tables.
func (s *Service) Migrate() error {
	if err := s.references.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate reference values: %w", err)
	}
	if err := s.links.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate links: %w", err)
	}
	if err := s.entities.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate entities: %w", err)
	}
	return nil
}

// Kinds returns the enabled kinds.
func (s *Service) Kinds() []models.Kind {
	var out []models.Kind
	for _, k := range models.Kinds {
		if s.cfg.IsObjectEnabled(string(k)) {
			out = append(out, k)
		}
	}
	return out
}

func (s *Service) kind(raw string) (models.Kind, error) {
	k, err := models.ParseKind(raw)
	if err != nil {
		return "", err
	}
	if !s.cfg.IsObjectEnabled(string(k)) {
		return "", fmt.Errorf("%w: %s", ErrObjectDisabled, k)
	}
	return k, nil
}

// Fields returns the field descriptors of a kind sorted by id.
func (s *Service) Fields(ctx context.Context, kind string) ([]models.FieldDescriptor, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	fields, err := s.schema.Fields(ctx, k)
	if err != nil {
		return nil, err
	}
	out := make([]models.FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Link returns the link row of a remote record.
func (s *Service) Link(ctx context.Context, kind, remoteID string) (*models.LinkRow, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	row, err := s.links.FindByRemoteID(ctx, s.cfg.Integration, k, remoteID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrLinkNotFound, k, remoteID)
	}
	return row, nil
}

// Audit checks the links of a kind against the local entities and the
// remote records. It never mutates anything; pass the plan to Prune for that.
func (s *Service) Audit(ctx context.Context, kind string, opts audit.Options) (*audit.Plan, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	return s.auditor.Plan(ctx, k, opts)
}

// Prune deletes the stale links of an audit plan. Nothing happens unless
// opts is confirmed and not a dry run.
func (s *Service) Prune(ctx context.Context, plan *audit.Plan, opts audit.Options) (int, error) {
	return s.auditor.Apply(ctx, plan, opts)
}

// window applies the configured bounds to a request without its own.
func (s *Service) window(req RunRequest) (RunRequest, error) {
	if req.FetchAll || req.Start != nil || req.End != nil {
		return req, nil
	}
	start, end, err := s.cfg.Window()
	if err != nil {
		return req, err
	}
	req.Start, req.End = start, end
	return req, nil
}

// Pull copies remote records of a kind into the local store.
// The report is returned even when the run fails.
func (s *Service) Pull(ctx context.Context, kind string, req RunRequest) (*report.RunReport, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	if req, err = s.window(req); err != nil {
		return nil, err
	}
	return s.run(ctx, k, "pull", func(r *reconcile.Reconciler) (reconcile.Result, error) {
		return r.Pull(ctx, k, pager.Query{
			Start:    req.Start,
			End:      req.End,
			FetchAll: req.FetchAll,
			Limit:    req.Limit,
		})
	})
}

// Push sends local changes of a kind to the remote side.
// The report is returned even when the run fails.
func (s *Service) Push(ctx context.Context, kind string, req RunRequest) (*report.RunReport, error) {
	k, err := s.kind(kind)
	if err != nil {
		return nil, err
	}
	if req, err = s.window(req); err != nil {
		return nil, err
	}
	return s.run(ctx, k, "push", func(r *reconcile.Reconciler) (reconcile.Result, error) {
		return r.Push(ctx, k, reconcile.PushOptions{
			Window:   entities.Window{Start: req.Start, End: req.End},
			FetchAll: req.FetchAll,
			Limit:    req.Limit,
		})
	})
}

func (s *Service) run(ctx context.Context, kind models.Kind, direction string, fn func(*reconcile.Reconciler) (reconcile.Result, error)) (*report.RunReport, error) {
	runID := uuid.NewString()
	l := logger.ForRun(s.logger, runID, string(kind), direction)

	rep := &report.RunReport{
		RunID:       runID,
		Integration: s.cfg.Integration,
		Kind:        string(kind),
		Direction:   direction,
		StartedAt:   s.now(),
	}
	res, err := fn(s.reconciler.WithLogger(l))
	rep.FinishedAt = s.now()
	rep.Created, rep.Updated, rep.Skipped = res.Created, res.Updated, res.Skipped
	if err != nil {
		rep.Error = err.Error()
	}

	if s.archiver != nil {
		if _, archiveErr := s.archiver.Archive(ctx, rep); archiveErr != nil {
			l.Warn("Failed to archive run report", zap.Error(archiveErr))
		}
	}
	return rep, err
}
