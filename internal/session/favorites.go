package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// Favorites returns the stored venue ids in insertion order. The set is kept
// per device, not per user.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	raw, ok, err := s.storage.Get(ctx, KeyFavorites)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}

	ids := make([]string, 0)

	if !ok || raw == "" {
		return ids, nil
	}

	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	return ids, nil
}

func (s *Store) IsFavorite(ctx context.Context, id string) (bool, error) {
	ids, err := s.Favorites(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(ids, id), nil
}

// ToggleFavorite removes id when present and appends it otherwise, then
// writes the whole set back. Concurrent togglers race: last write wins.
func (s *Store) ToggleFavorite(ctx context.Context, id string) ([]string, error) {
	ids, err := s.Favorites(ctx)
	if err != nil {
		return nil, err
	}

	if idx := slices.Index(ids, id); idx >= 0 {
		ids = slices.Delete(ids, idx, idx+1)
	} else {
		ids = append(ids, id)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode favorites: %w", err)
	}

	if err := s.storage.Set(ctx, KeyFavorites, string(data)); err != nil {
		return nil, fmt.Errorf("save favorites: %w", err)
	}

	return ids, nil
}
