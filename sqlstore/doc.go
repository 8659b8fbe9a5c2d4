// Package sqlstore provides the relational data access layer for animals.
//
// It runs on database/sql with either PostgreSQL (pgx) or SQLite
// (modernc.org/sqlite). The animals table stores the owning walker's id as text
// in the "walkerId" column; values are read and written through
// [model.WalkerID] so malformed ids never reach the table.
//
// # Errors
//
//   - [model.ErrWriteRejected] - constraint violation, e.g. a breed over 60 characters
//   - [model.ErrStoreUnavailable] - connection failure or any other driver error
package sqlstore
