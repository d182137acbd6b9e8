package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stocktake/core/apperr"
	"stocktake/core/storage"
	"stocktake/feature/catalog/erp"
	"stocktake/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExportFetcher is the slice of the ERP client the sync needs.
type ExportFetcher interface {
	FetchStock(ctx context.Context) ([]erp.StockRecord, error)
}

// SyncReport summarizes a catalog sync.
type SyncReport struct {
	Items    int       `json:"items"`
	SyncedAt time.Time `json:"syncedAt"`
	// SnapshotObject is the archived copy's object name, empty when the
	// archive was skipped or failed.
	SnapshotObject string `json:"snapshotObject,omitempty"`
}

// SnapshotInfo describes one archived catalog snapshot.
type SnapshotInfo struct {
	Object   string    `json:"object"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Service resolves barcodes against the local catalog and keeps that
// catalog in sync with the ERP export.
type Service struct {
	db      *gorm.DB
	archive storage.Client
	bucket  string
	fetcher ExportFetcher
	cfg     Config
	logger  *zap.Logger
}

// NewService creates a catalog service. archive may be nil, in which case
// sync skips the snapshot step.
func NewService(db *gorm.DB, archive storage.Client, bucket string, fetcher ExportFetcher, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		archive: archive,
		bucket:  bucket,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Resolve implements Resolver against the local catalog table.
func (s *Service) Resolve(ctx context.Context, barcode string) (*Entry, error) {
	code := NormalizeCode(barcode)
	if code == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "barcode must not be empty")
	}

	var item models.CatalogItem
	err := s.db.WithContext(ctx).Where("barcode = ?", code).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "barcode %q not found in catalog", code)
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "catalog lookup failed")
	}
	return entryFromItem(item), nil
}

// ListScope returns one entry per distinct item code, ordered ascending.
func (s *Service) ListScope(ctx context.Context) ([]Entry, error) {
	var items []models.CatalogItem
	err := s.db.WithContext(ctx).Order("item_code asc, barcode asc").Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "catalog scope query failed")
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		// Rows repeat item attributes per barcode; keep the first per code.
		if n := len(entries); n > 0 && entries[n-1].ItemCode == item.ItemCode {
			continue
		}
		entries = append(entries, *entryFromItem(item))
	}
	return entries, nil
}

func entryFromItem(item models.CatalogItem) *Entry {
	increment := item.QuantityIncrement
	if increment < 1 {
		increment = 1
	}
	return &Entry{
		ItemCode:          item.ItemCode,
		Description:       item.Description,
		Mask:              item.Mask,
		SystemQuantity:    item.SystemQuantity,
		QuantityIncrement: increment,
	}
}

// Sync replaces the local catalog with a fresh ERP export and archives the
// export as a JSON snapshot. The replacement is a single transaction; a
// failed fetch or write leaves the previous catalog untouched.
func (s *Service) Sync(ctx context.Context) (*SyncReport, error) {
	if s.fetcher == nil || s.cfg.BaseURL == "" {
		return nil, apperr.New(apperr.KindUnavailable, "catalog export API is not configured")
	}

	records, err := s.fetcher.FetchStock(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "catalog export fetch failed")
	}

	now := time.Now().UTC()
	items := buildItems(records, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CatalogItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 500).Error
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "catalog replace failed")
	}

	report := &SyncReport{Items: len(items), SyncedAt: now}
	if object, err := s.archiveSnapshot(ctx, records, now); err != nil {
		// The local catalog is the resolution source; a lost snapshot only
		// weakens the audit trail.
		s.logger.Warn("Catalog snapshot archive failed", zap.Error(err))
	} else {
		report.SnapshotObject = object
	}

	s.logger.Info("Catalog synced",
		zap.Int("items", len(items)),
		zap.Int("export_records", len(records)),
	)
	return report, nil
}

// buildItems normalizes export records into catalog rows, dropping rows
// without a barcode and keeping the last record per barcode.
func buildItems(records []erp.StockRecord, now time.Time) []models.CatalogItem {
	byBarcode := make(map[string]int, len(records))
	items := make([]models.CatalogItem, 0, len(records))

	for _, rec := range records {
		barcode := NormalizeCode(rec.Barcode)
		if barcode == "" {
			continue
		}
		increment := rec.LabelQuantity
		if increment < 1 {
			increment = 1
		}
		item := models.CatalogItem{
			Barcode:           barcode,
			ItemCode:          NormalizeCode(rec.ItemCode),
			Description:       rec.Description,
			Mask:              rec.Mask,
			SystemQuantity:    rec.SystemQuantity,
			QuantityIncrement: increment,
			SyncedAt:          now,
		}
		if idx, seen := byBarcode[barcode]; seen {
			items[idx] = item
			continue
		}
		byBarcode[barcode] = len(items)
		items = append(items, item)
	}
	return items
}

func (s *Service) archiveSnapshot(ctx context.Context, records []erp.StockRecord, now time.Time) (string, error) {
	if s.archive == nil {
		return "", nil
	}

	exists, err := s.archive.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := s.archive.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", err
		}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return "", err
	}

	object := fmt.Sprintf("snapshots/catalog-%s.json", now.Format("20060102T150405Z"))
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	for _, name := range []string{object, s.cfg.SnapshotObject} {
		if name == "" {
			continue
		}
		_, err = s.archive.PutObject(ctx, s.bucket, name, bytes.NewReader(payload), int64(len(payload)), opts)
		if err != nil {
			return "", err
		}
	}
	return object, nil
}

// ListSnapshots enumerates archived catalog snapshots, newest last.
func (s *Service) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	if s.archive == nil {
		return nil, apperr.New(apperr.KindUnavailable, "snapshot archive is not configured")
	}

	infos := []SnapshotInfo{}
	ch := s.archive.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: "snapshots/", Recursive: true})
	for obj := range ch {
		if obj.Err != nil {
			return nil, apperr.Wrap(obj.Err, apperr.KindUnavailable, "snapshot listing failed")
		}
		infos = append(infos, SnapshotInfo{Object: obj.Key, Size: obj.Size, Modified: obj.LastModified})
	}
	return infos, nil
}
