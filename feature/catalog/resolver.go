package catalog

import (
	"context"
	"strings"
)

// Entry is the resolved identity of a scanned barcode.
type Entry struct {
	// ItemCode is the catalog item the barcode resolves to. The resolver is
	// the sole authority on this mapping.
	ItemCode    string `json:"itemCode"`
	Description string `json:"description"`
	Mask        string `json:"mask"`
	// SystemQuantity is the system-of-record count for the item.
	SystemQuantity int `json:"systemQuantity"`
	// QuantityIncrement is the per-scan increment for this barcode's label.
	QuantityIncrement int `json:"quantityIncrement"`
}

// Resolver maps barcodes to catalog entries and enumerates the catalog
// scope used by variance reports.
type Resolver interface {
	// Resolve returns the entry for a barcode, or a not_found error.
	Resolve(ctx context.Context, barcode string) (*Entry, error)
	// ListScope returns one entry per distinct catalog item.
	ListScope(ctx context.Context) ([]Entry, error)
}

// NormalizeCode canonicalizes barcodes and item codes for lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
