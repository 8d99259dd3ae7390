// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores translate driver-level errors into the sentinel
// errors of the store package, so callers never see pgconn details.
package postgres
