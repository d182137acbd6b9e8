// Package database manages the GORM connection used by the session store
// and the local catalog.
//
// Two drivers are supported: MySQL for shared deployments and sqlite for
// tests or single-terminal setups. The sqlite pool is capped at one
// connection so in-memory databases behave like a single database and
// concurrent transactions serialize instead of failing with SQLITE_BUSY.
package database
