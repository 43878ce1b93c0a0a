// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, plus the embedded goose migrations
// that create the users and tasks tables.
//
// Connections use the pgx driver through database/sql (driver name "pgx").
// Driver errors are translated into store sentinel errors by MapError so
// callers never depend on PostgreSQL error codes.
package postgres
