package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/avstrong/holidaze/internal/logger"
)

type Config struct {
	L        *logger.Logger
	Address  string
	Password string
	DB       int
	Prefix   string
}

// Store keeps the local keys in redis under Prefix, for setups where several
// front end processes share one device profile.
type Store struct {
	l      *logger.Logger
	client *goredis.Client
	prefix string
}

func New(conf Config) *Store {
	client := goredis.NewClient(&goredis.Options{ //nolint:exhaustruct
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})

	return &Store{
		l:      conf.L,
		client: client,
		prefix: conf.Prefix,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, s.prefix+key)
	}

	n, err := s.client.Del(ctx, full...).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	s.l.LogDebug("Removed %d of %d keys from redis", n, len(keys))

	return nil
}
