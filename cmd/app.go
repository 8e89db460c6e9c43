package cmd

import (
	"context"
	"fmt"

	"crm-sync/core/config"
	"crm-sync/core/database"
	"crm-sync/core/logger"
	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"
	"crm-sync/core/storage"
	crmsync "crm-sync/feature/sync"
	"crm-sync/feature/sync/report"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	remote  remote.Client
	feature *crmsync.Feature
}

// bootstrap loads the configuration and wires the sync feature.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	l = l.With(zap.String("integration", cfg.Sync.Integration))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	// Reports are best effort; an unreachable bucket only disables them.
	var archiver *report.Archiver
	if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket); err != nil {
		l.Warn("Run reports disabled", zap.Error(err))
	} else {
		archiver = report.NewArchiver(store, cfg.Storage.Bucket, cfg.Sync.ReportPrefix, l)
	}

	client, err := newRemote(ctx, cfg.Remote, store, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	mapping, err := config.LoadMapping(cfg.Sync.MappingFile)
	if err != nil {
		return nil, err
	}

	feature, err := crmsync.NewFeature(db, client, archiver, cfg.Sync, mapping, l)
	if err != nil {
		return nil, err
	}
	if err := feature.Service().Migrate(); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: l, db: db, store: store, remote: client, feature: feature}, nil
}

// newRemote builds the remote client selected by cfg.
func newRemote(ctx context.Context, cfg remote.Config, store storage.Client, bucket string) (remote.Client, error) {
	switch cfg.Driver {
	case remote.DriverSandbox, "":
		if cfg.FixtureObject == "" {
			return sandbox.New(), nil
		}
		sb, err := sandbox.Load(ctx, store, bucket, cfg.FixtureObject)
		if err != nil {
			return nil, fmt.Errorf("failed to load sandbox fixture: %w", err)
		}
		return sb, nil
	default:
		return nil, fmt.Errorf("unsupported remote driver %q", cfg.Driver)
	}
}
