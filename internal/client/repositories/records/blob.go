package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/storage"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

// BlobStore implements Store over one key of a storage.Store.
//
// Every mutation is a read-modify-write of the whole array. The mutex
// serializes writers in this process and storage.Store.Update makes the read
// and the write one transaction, so a write is always based on the latest
// committed array.
//
// A missing or undecodable blob reads as an empty collection; the decode
// failure is logged and not returned. The next successful mutation replaces
// the undecodable value.
type BlobStore[T Identifiable] struct {
	mu     sync.Mutex
	kv     storage.Store
	key    string
	logger logging.Logger
}

// NewBlobStore returns a BlobStore keeping its collection in kv under key.
func NewBlobStore[T Identifiable](kv storage.Store, key string, logger logging.Logger) *BlobStore[T] {
	return &BlobStore[T]{kv: kv, key: key, logger: logger.With("storage_key", key)}
}

// GetAll returns the collection in insertion order, never nil.
func (s *BlobStore[T]) GetAll(ctx context.Context) ([]T, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return s.decode(ctx, raw), nil
}

// Append adds rec at the end unless its key is empty or already present.
func (s *BlobStore[T]) Append(ctx context.Context, rec T) error {
	if rec.Key() == "" {
		return ErrEmptyKey
	}
	return s.mutate(ctx, func(items []T) ([]T, error) {
		for _, item := range items {
			if item.Key() == rec.Key() {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, rec.Key())
			}
		}
		return append(items, rec), nil
	})
}

// RemoveByID drops the record with id and reports whether one existed.
func (s *BlobStore[T]) RemoveByID(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.mutate(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for _, item := range items {
			if item.Key() == id {
				removed = true
				continue
			}
			kept = append(kept, item)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Clear stores an empty collection.
func (s *BlobStore[T]) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]T) ([]T, error) {
		return []T{}, nil
	})
}

func (s *BlobStore[T]) mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.Update(ctx, func(ctx context.Context, tx storage.Repository) error {
		raw, err := tx.Get(ctx, s.key)
		if err != nil {
			return fmt.Errorf("read %s: %w", s.key, err)
		}

		items, err := fn(s.decode(ctx, raw))
		if err != nil {
			return err
		}

		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.key, err)
		}
		if err := tx.Set(ctx, s.key, encoded); err != nil {
			return fmt.Errorf("write %s: %w", s.key, err)
		}
		return nil
	})
}

func (s *BlobStore[T]) decode(ctx context.Context, raw []byte) []T {
	items := []T{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn(ctx, "stored collection is unreadable, treating as empty", "error", err, "bytes", len(raw))
		return []T{}
	}
	if items == nil {
		// the literal "null"
		return []T{}
	}
	return items
}
