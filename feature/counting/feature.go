package counting

import (
	"fmt"

	"stocktake/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the counting service into the application loader.
type Feature struct {
	store   *Store
	service *Service
	cfg     Config
}

// NewFeature creates the counting feature.
func NewFeature(db *gorm.DB, resolver catalog.Resolver, cfg Config, logger *zap.Logger) *Feature {
	store := NewStore(db)
	return &Feature{
		store:   store,
		service: NewService(store, resolver, cfg, logger),
		cfg:     cfg,
	}
}

// Service exposes the underlying service for CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}

func (f *Feature) Name() string {
	return "counting"
}

func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the session tables and registers routes.
func (f *Feature) Load(app fiber.Router) error {
	if !f.cfg.IsValid() {
		return fmt.Errorf("invalid counting policy: duplicate_policy=%q variance_scope=%q",
			f.cfg.DuplicatePolicy, f.cfg.VarianceScope)
	}
	if err := f.store.AutoMigrate(); err != nil {
		return err
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
