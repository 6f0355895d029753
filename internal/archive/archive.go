// Package archive maintains the ordered collection of finalized letters on
// top of the key-value persistence boundary. Every mutation is a
// read-full-collection, compute, write-full-collection cycle so the stored
// value is always a complete, consistent snapshot.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// lettersKey is the logical key holding the serialized archive collection.
const lettersKey = "letters"

// Predicate selects letters for a filtered view.
type Predicate func(model.Letter) bool

// Store is the archive of finalized letters, most-recent-first.
type Store interface {
	// Append adds a letter to the front of the collection and persists the
	// whole collection.
	Append(ctx context.Context, l *model.Letter) error

	// All returns the full ordered collection.
	All(ctx context.Context) ([]model.Letter, error)

	// FilteredSorted returns the letters matching pred, sorted by letter date
	// descending (creation time breaks ties).
	FilteredSorted(ctx context.Context, pred Predicate) ([]model.Letter, error)

	// Clear empties the collection.
	Clear(ctx context.Context) error
}

type kvArchive struct {
	kv repository.KVStore
}

// NewStore creates an archive Store over the given key-value persistence.
func NewStore(kv repository.KVStore) Store {
	return &kvArchive{kv: kv}
}

func (a *kvArchive) Append(ctx context.Context, l *model.Letter) error {
	letters, err := a.All(ctx)
	if err != nil {
		return err
	}
	updated := append([]model.Letter{*l}, letters...)

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	if err := a.kv.Set(ctx, lettersKey, data); err != nil {
		return fmt.Errorf("persist archive: %w", err)
	}
	return nil
}

func (a *kvArchive) All(ctx context.Context) ([]model.Letter, error) {
	data, err := a.kv.Get(ctx, lettersKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return []model.Letter{}, nil
		}
		return nil, fmt.Errorf("load archive: %w", err)
	}
	var letters []model.Letter
	if err := json.Unmarshal(data, &letters); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	return letters, nil
}

func (a *kvArchive) FilteredSorted(ctx context.Context, pred Predicate) ([]model.Letter, error) {
	letters, err := a.All(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Letter, 0, len(letters))
	for _, l := range letters {
		if pred == nil || pred(l) {
			filtered = append(filtered, l)
		}
	}

	// ISO dates compare correctly as strings.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date > filtered[j].Date
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

func (a *kvArchive) Clear(ctx context.Context) error {
	if err := a.kv.Remove(ctx, lettersKey); err != nil {
		return fmt.Errorf("clear archive: %w", err)
	}
	return nil
}
