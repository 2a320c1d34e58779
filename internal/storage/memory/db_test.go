package memory

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/avstrong/holidaze/internal/logger"
)

func TestDB(t *testing.T) {
	ctx := context.Background()

	l := logrus.New()
	l.SetOutput(io.Discard)

	db := New(Config{L: logger.New(l)})

	if err := db.Set(ctx, "", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}

	if err := db.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := db.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, ok, err := db.Get(ctx, "a")
	if err != nil || !ok || value != "1" {
		t.Fatalf("unexpected get: %q %v %v", value, ok, err)
	}

	if err := db.Delete(ctx, "a", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok, _ := db.Get(ctx, "a"); ok {
		t.Error("a survived delete")
	}

	if db.Len() != 1 {
		t.Errorf("expected 1 key, got %d", db.Len())
	}
}
