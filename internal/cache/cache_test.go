package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if b, err := m.Get(ctx, "k"); err != nil || string(b) != "v" {
		t.Fatalf("expected hit, got %q %v", b, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestJSONRoundTripAndDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type item struct {
		Name string `json:"name"`
	}
	if err := SetJSON(ctx, m, "items", []item{{"cut"}}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []item
	hit, err := GetJSON(ctx, m, "test", "items", &got)
	if err != nil || !hit || len(got) != 1 || got[0].Name != "cut" {
		t.Fatalf("unexpected %v %v %+v", hit, err, got)
	}

	_ = m.Delete(ctx, "items")
	hit, err = GetJSON(ctx, m, "test", "items", &got)
	if err != nil || hit {
		t.Fatalf("expected miss after delete, got %v %v", hit, err)
	}
}
