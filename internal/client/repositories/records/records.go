// Package records is a generic keyed-record store: an ordered collection of
// values with unique keys, persisted as one JSON array under a single
// storage key.
//
// Store is the interface callers depend on, so the blob layout can later be
// swapped for a table-per-record backend without touching them.
package records

import (
	"context"
	"errors"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrEmptyKey     = errors.New("empty key")
)

// Identifiable is implemented by record types; Key must be unique in a Store.
type Identifiable interface {
	Key() string
}

// Store keeps records in insertion order.
type Store[T Identifiable] interface {
	// GetAll returns every record in insertion order, never nil.
	GetAll(ctx context.Context) ([]T, error)
	// Append adds rec at the end, or fails with ErrDuplicateKey.
	Append(ctx context.Context, rec T) error
	// RemoveByID removes the record with the key, reporting whether one existed.
	RemoveByID(ctx context.Context, id string) (bool, error)
	// Clear removes all records.
	Clear(ctx context.Context) error
}
