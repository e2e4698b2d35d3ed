package repository

import "context"

// SnapshotRepository is the remote backing store behind an in-memory store.
// It only ever sees committed changes.
type SnapshotRepository[T any] interface {
	// LoadAll returns every persisted record
	LoadAll(ctx context.Context) ([]T, error)
	// Save upserts the given records and removes the given ids in one transaction
	Save(ctx context.Context, upserts []T, deletes []string) error
}
