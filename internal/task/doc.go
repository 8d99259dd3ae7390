// Package task provides background task processing with named priority
// queues, database-backed persistence, and crash recovery.
package task
