// Package catalog resolves scanned barcodes to catalog items.
//
// The catalog is owned by the external ERP; this package keeps a local,
// read-only copy in the database, replaced wholesale by Sync from the
// integrator's stock export. Resolution is a barcode lookup against that
// copy, so scanning keeps working when the ERP is unreachable.
//
// Every sync also archives the raw export to object storage, preserving the
// exact system quantities a later variance report was computed against.
package catalog
