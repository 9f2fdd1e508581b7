package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/lottieframes/pkg/exporter"
	"github.com/matzehuels/lottieframes/pkg/render/rendertest"
)

func newTestStore(t *testing.T, ttl time.Duration) (*MemoryStore, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(func() (*exporter.Exporter, error) {
		return exporter.New(exporter.Options{Renderer: &rendertest.Renderer{}})
	}, ttl)
	store.now = func() time.Time { return now }
	t.Cleanup(func() { store.Close() })
	return store, &now
}

func TestCreateGet(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	s, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !ValidID(s.ID) {
		t.Errorf("ID %q is not a valid session ID", s.ID)
	}
	if s.Exporter == nil {
		t.Fatal("session has no exporter")
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}
}

func TestGetNotFound(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	if _, err := store.Get(context.Background(), NewID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestExpiry(t *testing.T) {
	store, now := newTestStore(t, time.Minute)
	ctx := context.Background()

	s, _ := store.Create(ctx)

	*now = now.Add(30 * time.Second)
	if _, err := store.Get(ctx, s.ID); err != nil {
		t.Fatalf("Get() within ttl error: %v", err)
	}

	// Get extended the lifetime to now+1m.
	*now = now.Add(45 * time.Second)
	if _, err := store.Get(ctx, s.ID); err != nil {
		t.Fatalf("Get() after touch error: %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if s.Context().Err() == nil {
		t.Error("expired session context should be cancelled")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestCleanup(t *testing.T) {
	store, now := newTestStore(t, time.Minute)
	ctx := context.Background()

	store.Create(ctx)
	store.Create(ctx)
	*now = now.Add(2 * time.Minute)
	fresh, _ := store.Create(ctx)

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Cleanup() = %d, want 2", n)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session should survive cleanup: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	s, _ := store.Create(ctx)
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{NewID(), true},
		{"", false},
		{"not-a-uuid", false},
		{"../../etc", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
