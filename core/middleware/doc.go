// Package middleware groups the HTTP middleware used by the server:
//
//   - rayid: per-request correlation id (first in the chain)
//   - auth: static API key check for everything behind the docs route
package middleware
