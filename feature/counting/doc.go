// Package counting implements the count session engine: session lifecycle,
// barcode scan ingestion, and the variance report.
//
// # Ingestion
//
// Each scan resolves through the catalog and lands on the session's
// (session, item) scan line: the first scan creates it, repeats either
// increment it or are rejected as duplicates, depending on the configured
// policy. The create-or-increment step runs in a store transaction that
// locks the session row, so concurrent scans of the same item never lose an
// update and a close cannot interleave with an in-flight scan. Sessions are
// independent; scanning in one never blocks another.
//
// # Variance
//
// ComputeVariance compares counted quantities against the catalog's system
// quantities for the union of scanned items and the configured catalog
// scope. Rows are ordered by item code and the summary is recomputed from
// the rows on every call.
package counting
