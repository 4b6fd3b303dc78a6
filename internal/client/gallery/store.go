// Package gallery is the device-local collection of saved restorations.
//
// The collection is kept in insertion order under common.GalleryStorageKey as
// one JSON array of models.RestoredImage. Ids are supplied by callers; the
// store only enforces that they are unique.
//
// Records are not filtered by owner: every account on the device sees and can
// delete every saved record.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/records"
	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/storage"
	"github.com/dmitrijs2005/retrorevive/internal/common"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

var (
	ErrDuplicateID   = errors.New("a saved restoration with this id already exists")
	ErrInvalidRecord = errors.New("restoration record has no id")
)

// Store is the gallery of saved restorations on this device.
type Store struct {
	records records.Store[models.RestoredImage]
	logger  logging.Logger
}

// New returns a Store over any records.Store implementation.
func New(rs records.Store[models.RestoredImage], logger logging.Logger) *Store {
	return &Store{records: rs, logger: logger.With("component", "gallery")}
}

// NewLocal returns a Store persisting into kv under the gallery storage key.
func NewLocal(kv storage.Store, logger logging.Logger) *Store {
	return New(records.NewBlobStore[models.RestoredImage](kv, common.GalleryStorageKey, logger), logger)
}

// Save appends rec. A record whose id is already stored is rejected with
// ErrDuplicateID and leaves the collection unchanged.
func (s *Store) Save(ctx context.Context, rec models.RestoredImage) error {
	err := s.records.Append(ctx, rec)
	switch {
	case err == nil:
		s.logger.Info(ctx, "restoration saved", "id", rec.ID, "filename", rec.Filename)
		return nil
	case errors.Is(err, records.ErrEmptyKey):
		return ErrInvalidRecord
	case errors.Is(err, records.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	default:
		s.logger.Error(ctx, "save failed", "id", rec.ID, "error", err)
		return fmt.Errorf("save restoration: %w", err)
	}
}

// List returns all saved restorations in the order they were saved. Nothing
// stored, or an unreadable blob, yields an empty slice.
func (s *Store) List(ctx context.Context) ([]models.RestoredImage, error) {
	items, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restorations: %w", err)
	}
	return items, nil
}

// Get returns the saved restoration with id or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.RestoredImage, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("restoration %s: %w", id, common.ErrorNotFound)
}

// Delete removes the record with id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	removed, err := s.records.RemoveByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete restoration: %w", err)
	}
	if removed {
		s.logger.Info(ctx, "restoration deleted", "id", id)
	} else {
		s.logger.Debug(ctx, "delete of unknown restoration ignored", "id", id)
	}
	return nil
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.records.Clear(ctx); err != nil {
		return fmt.Errorf("clear restorations: %w", err)
	}
	s.logger.Info(ctx, "gallery cleared")
	return nil
}
