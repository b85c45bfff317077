package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/matchbook/go/internal/models"
	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Repository keeps the match collection as a single snapshot in a storage slot
type Repository struct {
	slot storage.Slot
	key  string
	loc  *time.Location
}

// NewRepository creates a new matches repository
func NewRepository(slot storage.Slot, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{
		slot: slot,
		key:  SnapshotKey,
		loc:  loc,
	}
}

// Load reads the snapshot. A missing key is an empty collection. A slot
// that cannot be read yields a *PersistenceError, a bad snapshot a decode error.
func (r *Repository) Load(ctx context.Context) ([]models.Match, error) {
	data, err := r.slot.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Match{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: fmt.Errorf("slot %s: %w", r.key, err)}
	}

	matches, err := DecodeSnapshot(data, r.loc)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Save overwrites the snapshot with matches
func (r *Repository) Save(ctx context.Context, matches []models.Match) error {
	data, err := EncodeSnapshot(matches)
	if err != nil {
		return err
	}
	if err := r.slot.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", r.key, err)
	}
	return nil
}

// Clear removes the snapshot key
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.slot.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", r.key, err)
	}
	return nil
}
