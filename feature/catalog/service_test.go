package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocktake/core/apperr"
	"stocktake/core/database"
	"stocktake/core/storage/mocks"
	"stocktake/feature/catalog/erp"
	"stocktake/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stubFetcher returns canned export records.
type stubFetcher struct {
	records []erp.StockRecord
	err     error
}

func (f *stubFetcher) FetchStock(_ context.Context) ([]erp.StockRecord, error) {
	return f.records, f.err
}

func setupCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CatalogItem{}))
	return db
}

func testConfig() Config {
	return Config{BaseURL: "http://erp.local", SnapshotObject: "snapshots/catalog-latest.json"}
}

func seedItem(t *testing.T, db *gorm.DB, barcode, itemCode string, systemQty int) {
	t.Helper()
	item := models.CatalogItem{
		Barcode:           barcode,
		ItemCode:          itemCode,
		Description:       "Item " + itemCode,
		Mask:              "UN",
		SystemQuantity:    systemQty,
		QuantityIncrement: 1,
		SyncedAt:          time.Now().UTC(),
	}
	require.NoError(t, db.Create(&item).Error)
}

func TestResolve(t *testing.T) {
	db := setupCatalogDB(t)
	seedItem(t, db, "7890001", "A100", 10)
	service := NewService(db, nil, "", nil, testConfig(), zap.NewNop())

	entry, err := service.Resolve(context.Background(), "  7890001  ")
	require.NoError(t, err)
	assert.Equal(t, "A100", entry.ItemCode)
	assert.Equal(t, 10, entry.SystemQuantity)
	assert.Equal(t, 1, entry.QuantityIncrement)

	_, err = service.Resolve(context.Background(), "   ")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = service.Resolve(context.Background(), "0000000")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListScope_DedupesItemCodes(t *testing.T) {
	db := setupCatalogDB(t)
	// Two barcodes map to the same item; the scope lists the item once.
	seedItem(t, db, "7890001", "A100", 10)
	seedItem(t, db, "7890002", "A100", 10)
	seedItem(t, db, "7890003", "B200", 5)
	service := NewService(db, nil, "", nil, testConfig(), zap.NewNop())

	entries, err := service.ListScope(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A100", entries[0].ItemCode)
	assert.Equal(t, "B200", entries[1].ItemCode)
}

func TestSync_ReplacesCatalog(t *testing.T) {
	db := setupCatalogDB(t)
	seedItem(t, db, "OLD0001", "OLD", 1)

	fetcher := &stubFetcher{records: []erp.StockRecord{
		{Barcode: "7890001", ItemCode: "a100", Description: "Desk", Mask: "UN", SystemQuantity: 10, LabelQuantity: 1},
		{Barcode: " 7890002 ", ItemCode: "B200", Description: "Chair", Mask: "CX", SystemQuantity: 5, LabelQuantity: 0},
		{Barcode: "", ItemCode: "NOBAR", SystemQuantity: 3},
	}}
	service := NewService(db, nil, "", fetcher, testConfig(), zap.NewNop())

	report, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Items)
	assert.Empty(t, report.SnapshotObject)

	var items []models.CatalogItem
	require.NoError(t, db.Order("barcode asc").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, "7890001", items[0].Barcode)
	assert.Equal(t, "A100", items[0].ItemCode)
	assert.Equal(t, "7890002", items[1].Barcode)
	// A zero label quantity still counts one unit per scan.
	assert.Equal(t, 1, items[1].QuantityIncrement)

	var oldCount int64
	require.NoError(t, db.Model(&models.CatalogItem{}).Where("barcode = ?", "OLD0001").Count(&oldCount).Error)
	assert.Zero(t, oldCount)
}

func TestSync_LastRecordPerBarcodeWins(t *testing.T) {
	now := time.Now().UTC()
	items := buildItems([]erp.StockRecord{
		{Barcode: "7890001", ItemCode: "A100", SystemQuantity: 10},
		{Barcode: "7890001", ItemCode: "A100", SystemQuantity: 12},
	}, now)

	require.Len(t, items, 1)
	assert.Equal(t, 12, items[0].SystemQuantity)
}

func TestSync_NotConfigured(t *testing.T) {
	db := setupCatalogDB(t)
	service := NewService(db, nil, "", nil, Config{}, zap.NewNop())

	_, err := service.Sync(context.Background())
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestSync_FetchFailureLeavesCatalogUntouched(t *testing.T) {
	db := setupCatalogDB(t)
	seedItem(t, db, "7890001", "A100", 10)

	fetcher := &stubFetcher{err: errors.New("connection refused")}
	service := NewService(db, nil, "", fetcher, testConfig(), zap.NewNop())

	_, err := service.Sync(context.Background())
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.CatalogItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSync_ArchivesSnapshot(t *testing.T) {
	db := setupCatalogDB(t)
	fetcher := &stubFetcher{records: []erp.StockRecord{
		{Barcode: "7890001", ItemCode: "A100", SystemQuantity: 10, LabelQuantity: 1},
	}}

	archive := &mocks.Client{}
	archive.On("BucketExists", mock.Anything, "stocktake").Return(true, nil)
	archive.On("PutObject", mock.Anything, "stocktake", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	service := NewService(db, archive, "stocktake", fetcher, testConfig(), zap.NewNop())

	report, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report.SnapshotObject, "snapshots/catalog-")

	// One timestamped copy plus the stable latest object.
	archive.AssertNumberOfCalls(t, "PutObject", 2)
	archive.AssertExpectations(t)
}

func TestSync_SnapshotFailureIsNotFatal(t *testing.T) {
	db := setupCatalogDB(t)
	fetcher := &stubFetcher{records: []erp.StockRecord{
		{Barcode: "7890001", ItemCode: "A100", SystemQuantity: 10, LabelQuantity: 1},
	}}

	archive := &mocks.Client{}
	archive.On("BucketExists", mock.Anything, "stocktake").Return(false, errors.New("storage down"))

	service := NewService(db, archive, "stocktake", fetcher, testConfig(), zap.NewNop())

	report, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Items)
	assert.Empty(t, report.SnapshotObject)

	var count int64
	require.NoError(t, db.Model(&models.CatalogItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSync_CreatesMissingBucket(t *testing.T) {
	db := setupCatalogDB(t)
	fetcher := &stubFetcher{records: []erp.StockRecord{
		{Barcode: "7890001", ItemCode: "A100", SystemQuantity: 10, LabelQuantity: 1},
	}}

	archive := &mocks.Client{}
	archive.On("BucketExists", mock.Anything, "stocktake").Return(false, nil)
	archive.On("MakeBucket", mock.Anything, "stocktake", mock.Anything).Return(nil)
	archive.On("PutObject", mock.Anything, "stocktake", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	service := NewService(db, archive, "stocktake", fetcher, testConfig(), zap.NewNop())

	_, err := service.Sync(context.Background())
	require.NoError(t, err)
	archive.AssertExpectations(t)
}

func TestListSnapshots(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "snapshots/catalog-20260101T000000Z.json", Size: 128}
	ch <- minio.ObjectInfo{Key: "snapshots/catalog-latest.json", Size: 128}
	close(ch)

	archive := &mocks.Client{}
	archive.On("ListObjects", mock.Anything, "stocktake", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	service := NewService(nil, archive, "stocktake", nil, testConfig(), zap.NewNop())

	infos, err := service.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "snapshots/catalog-20260101T000000Z.json", infos[0].Object)
}

func TestListSnapshots_NotConfigured(t *testing.T) {
	service := NewService(nil, nil, "", nil, testConfig(), zap.NewNop())

	_, err := service.ListSnapshots(context.Background())
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
