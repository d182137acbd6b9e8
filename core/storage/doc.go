// Package storage wraps the MinIO client behind a narrow interface.
//
// The stock-take service uses object storage for one thing: archiving the
// catalog export fetched on every sync, so a variance report can later be
// audited against the exact system quantities it was computed from. The
// Client interface exists so features depend on the five operations they
// need and tests can substitute the mocks package.
package storage
