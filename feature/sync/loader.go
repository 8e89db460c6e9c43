package sync

import (
	"crm-sync/core/config"
	"crm-sync/core/remote"
	"crm-sync/feature/sync/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the sync feature.
func NewFeature(db *gorm.DB, client remote.Client, archiver *report.Archiver, cfg config.SyncConfig, mapping config.Mapping, logger *zap.Logger) (*Feature, error) {
	svc, err := NewService(db, client, archiver, cfg, mapping, logger)
	if err != nil {
		return nil, err
	}
	return &Feature{service: svc, handler: NewHandler(svc)}, nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled reports whether any object kind is enabled.
func (f *Feature) IsEnabled() bool {
	return len(f.service.Kinds()) > 0
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
