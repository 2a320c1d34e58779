package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avstrong/holidaze/internal/booking"
	"github.com/avstrong/holidaze/internal/logger"
)

// Keys under which the session lives in the local store.
const (
	KeyToken     = "token"
	KeyProfile   = "profile"
	KeyFavorites = "favorites"
)

type storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is the device-local session: access token, profile snapshot and the
// favorites set. The profile is cached as returned at login and not checked
// against the remote API again.
type Store struct {
	l       *logger.Logger
	storage storage
}

func New(l *logger.Logger, storage storage) *Store {
	return &Store{
		l:       l,
		storage: storage,
	}
}

// Save writes the profile before the token, so a token is never stored
// without the profile that decides the role. When the token write fails the
// profile is removed again.
func (s *Store) Save(ctx context.Context, session *booking.Session) error {
	if err := s.SaveProfile(ctx, &session.Profile); err != nil {
		return err
	}

	if err := s.storage.Set(ctx, KeyToken, session.AccessToken); err != nil {
		if delErr := s.storage.Delete(ctx, KeyProfile); delErr != nil {
			s.l.LogErrorf("Could not remove profile after failed token write: %v", delErr.Error())
		}

		return fmt.Errorf("save token: %w", err)
	}

	return nil
}

func (s *Store) SaveProfile(ctx context.Context, profile *booking.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if err := s.storage.Set(ctx, KeyProfile, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}

// Token returns the stored access token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	return token, nil
}

// Profile returns the cached profile, or nil when logged out.
func (s *Store) Profile(ctx context.Context) (*booking.Profile, error) {
	raw, ok, err := s.storage.Get(ctx, KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if !ok || raw == "" {
		return nil, nil //nolint:nilnil
	}

	var profile booking.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &profile, nil
}

// Clear removes the token, the profile and the favorites in one call.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, KeyToken, KeyProfile, KeyFavorites); err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}

	return nil
}
