// Package settings persists the user-editable application settings on the
// key-value boundary as one whole serialized value.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// settingsKey is the logical key holding the serialized settings object.
const settingsKey = "settings"

// Store loads and saves the application settings.
type Store interface {
	// Load returns the saved settings merged over the defaults, so fields
	// introduced after the value was written still carry their defaults.
	Load(ctx context.Context) (model.AppSettings, error)

	// Save replaces the stored settings with s.
	Save(ctx context.Context, s model.AppSettings) error

	// Reset removes the stored settings, reverting Load to the defaults.
	Reset(ctx context.Context) error
}

type kvSettings struct {
	kv repository.KVStore
}

// NewStore creates a settings Store over the given key-value persistence.
func NewStore(kv repository.KVStore) Store {
	return &kvSettings{kv: kv}
}

func (s *kvSettings) Load(ctx context.Context) (model.AppSettings, error) {
	out := model.DefaultSettings()

	data, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return out, nil
		}
		return model.AppSettings{}, fmt.Errorf("load settings: %w", err)
	}

	// Unmarshalling over the defaults merges: absent fields keep their
	// default value, present fields override.
	if err := json.Unmarshal(data, &out); err != nil {
		return model.AppSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (s *kvSettings) Save(ctx context.Context, settings model.AppSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.kv.Set(ctx, settingsKey, data); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

func (s *kvSettings) Reset(ctx context.Context) error {
	if err := s.kv.Remove(ctx, settingsKey); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}
