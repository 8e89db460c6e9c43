package integrity

import (
	"context"

	"crm-sync/core/remote"
	"crm-sync/core/storage"
	"crm-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	prefix string
	db     *gorm.DB
	remote remote.Client
	logger *zap.Logger
}

// NewService creates a new integrity service. prefix is the run report prefix.
func NewService(client storage.Client, bucket, prefix string, db *gorm.DB, rc remote.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		prefix: prefix,
		db:     db,
		remote: rc,
		logger: logger,
	}
}

// CheckStorage checks the report bucket and prefix.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, s.prefix)
}

// FixStorage creates the missing bucket or prefix.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	return checks.FixStorage(ctx, s.client, s.logger, report)
}

// CheckDatabase checks the sync tables.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabase(s.db)
}

// CheckRemote checks that the remote CRM answers.
func (s *Service) CheckRemote(ctx context.Context) *checks.RemoteReport {
	return checks.CheckRemote(ctx, s.remote)
}
