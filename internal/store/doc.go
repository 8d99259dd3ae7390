// Package store defines the persistence interfaces for users, words,
// and texts, along with the sentinel errors the rest of the application
// matches on. Implementations live under internal/platform.
package store
