// Package apperr defines the error taxonomy shared by every feature.
//
// Each error carries a stable machine-readable Kind plus a human-readable
// message, so the presentation layer can differentiate outcomes (a duplicate
// scan must not look like an unknown item). Respond maps a kind to its HTTP
// status and renders the tagged JSON envelope.
package apperr
