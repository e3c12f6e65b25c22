package domain

import "context"

// StoreRepository is the persistence port for the single private habit store.
//
// Read never fails: any backend problem (missing blob, network error,
// malformed payload) degrades to DefaultStore. Write failures propagate so
// callers know the store was not durably saved, and a concurrent reader never
// observes a partially written blob.
type StoreRepository interface {
	Read(ctx context.Context) HabitStore
	Write(ctx context.Context, store HabitStore) error
}
