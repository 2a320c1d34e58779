package memory

import (
	"context"
	"sync"

	"github.com/avstrong/holidaze/internal/logger"
)

type Config struct {
	L *logger.Logger
}

// DB is a process-local key/value store. Each call is atomic on its own;
// sequences of calls are not.
type DB struct {
	mu     sync.Mutex
	l      *logger.Logger
	values map[string]string
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:      conf.L,
		values: make(map[string]string),
	}
}

func (db *DB) Get(_ context.Context, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	value, ok := db.values[key]

	return value, ok, nil
}

func (db *DB) Set(_ context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if key == "" {
		return ErrEmptyKey
	}

	db.values[key] = value

	return nil
}

func (db *DB) Delete(_ context.Context, keys ...string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, key := range keys {
		delete(db.values, key)
	}

	db.l.LogDebug("Removed %d keys from memory store", len(keys))

	return nil
}

func (db *DB) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.values)
}
