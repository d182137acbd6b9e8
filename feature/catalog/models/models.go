package models

import "time"

// CatalogItem is a locally persisted row of the system-of-record catalog,
// keyed by barcode. Several barcodes may alias the same item code (one per
// label layout); the item-level attributes are repeated on each row.
// Rows are replaced wholesale on every sync and never mutated by the
// counting engine.
type CatalogItem struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// Barcode is the resolution key, upper-cased and trimmed.
	Barcode string `gorm:"size:64;not null;uniqueIndex" json:"barcode"`

	// ItemCode identifies the catalog item this barcode resolves to.
	ItemCode string `gorm:"size:64;not null;index" json:"itemCode"`

	Description string `json:"description"`

	// Mask is the display unit / grouping label from the ERP.
	Mask string `json:"mask"`

	// SystemQuantity is the authoritative count held by the system of record.
	SystemQuantity int `gorm:"not null;default:0" json:"systemQuantity"`

	// QuantityIncrement is the per-scan increment encoded by this barcode's
	// label. 1 for unit barcodes, >1 for multi-unit pack labels.
	QuantityIncrement int `gorm:"not null;default:1" json:"quantityIncrement"`

	SyncedAt time.Time `json:"syncedAt"`
}

// TableName specifies the table name
func (CatalogItem) TableName() string {
	return "catalog_items"
}
