package catalog

import (
	"stocktake/core/storage"
	"stocktake/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the catalog service into the application loader.
type Feature struct {
	service *Service
}

// NewFeature creates the catalog feature.
func NewFeature(db *gorm.DB, archive storage.Client, bucket string, fetcher ExportFetcher, cfg Config, logger *zap.Logger) *Feature {
	return &Feature{
		service: NewService(db, archive, bucket, fetcher, cfg, logger),
	}
}

// Service exposes the underlying service so other features can use it as a
// Resolver.
func (f *Feature) Service() *Service {
	return f.service
}

func (f *Feature) Name() string {
	return "catalog"
}

func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the catalog table and registers routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.db.AutoMigrate(&models.CatalogItem{}); err != nil {
		return err
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
