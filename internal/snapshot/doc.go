// Package snapshot holds the in-memory mirror of one board.
//
// A Snapshot is immutable once published: every mutation produces a new
// Snapshot that shares the columns it did not touch with its predecessor.
// Consumers detect change by pointer comparison of ColumnState values,
// and rollback is a pointer swap back to an earlier Snapshot.
package snapshot
