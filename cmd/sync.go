package cmd

import (
	"context"
	"fmt"
	"time"

	"stocktake/core/config"
	"stocktake/core/database"
	"stocktake/core/logger"
	"stocktake/core/storage"
	"stocktake/feature/catalog"
	"stocktake/feature/catalog/erp"
	"stocktake/feature/catalog/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd fetches the ERP stock export and replaces the local catalog.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the local catalog from the ERP export",
	Long: `Fetch the stock export from the ERP integrator API, replace the local
catalog table, and archive the export as a JSON snapshot in object storage.

Run this before opening a count session so variance reports compare against
current system quantities.`,
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.CatalogItem{}); err != nil {
		return fmt.Errorf("failed to migrate catalog table: %w", err)
	}

	var archive storage.Client
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Snapshot storage unavailable, archive will be skipped", zap.Error(err))
	} else {
		archive = client
	}

	fetcher := erp.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Token, cfg.Catalog.Key,
		time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)
	svc := catalog.NewService(db, archive, cfg.Storage.Bucket, fetcher, cfg.Catalog, l)

	report, err := svc.Sync(ctx)
	if err != nil {
		return err
	}

	l.Info("Catalog sync finished",
		zap.Int("items", report.Items),
		zap.String("snapshot", report.SnapshotObject),
	)
	return nil
}
