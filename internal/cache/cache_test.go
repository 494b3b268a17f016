package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	values map[string]entry
	getErr error
	setErr error
}

type entry struct {
	value     string
	expiresAt time.Time
}

func newFakeStore() *fakeStore { return &fakeStore{values: map[string]entry{}} }

func (f *fakeStore) CacheGet(_ context.Context, key string) (string, time.Time, bool, error) {
	if f.getErr != nil {
		return "", time.Time{}, false, f.getErr
	}
	e, ok := f.values[key]
	return e.value, e.expiresAt, ok, nil
}

func (f *fakeStore) CacheUpsert(_ context.Context, key, value string, expiresAt time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = entry{value: value, expiresAt: expiresAt}
	return nil
}

func TestCache_RoundTrip(t *testing.T) {
	store := newFakeStore()
	c := New(store, true, 5*time.Minute)
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Limit float64 `json:"limit"`
	}

	c.Set(ctx, "breakers:7", payload{Name: "Kitchen", Limit: 1500}, 0)

	var got payload
	if !c.Get(ctx, "breakers:7", &got) {
		t.Fatal("expected hit")
	}
	if got.Name != "Kitchen" || got.Limit != 1500 {
		t.Errorf("value changed through the cache: %+v", got)
	}
}

func TestCache_ExpiryBoundary(t *testing.T) {
	store := newFakeStore()
	c := New(store, true, 5*time.Minute)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	c.Set(ctx, "k", "v", 30*time.Second)

	var got string
	// now < write_time + ttl: hit
	c.now = func() time.Time { return base.Add(29 * time.Second) }
	if !c.Get(ctx, "k", &got) {
		t.Fatal("expected hit before expiry")
	}

	// now == write_time + ttl: miss
	c.now = func() time.Time { return base.Add(30 * time.Second) }
	if c.Get(ctx, "k", &got) {
		t.Fatal("expected miss at expiry instant")
	}
}

func TestCache_InvalidateIsImmediateMiss(t *testing.T) {
	store := newFakeStore()
	c := New(store, true, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Hour)
	c.Invalidate(ctx, "k")

	var got string
	if c.Get(ctx, "k", &got) {
		t.Fatal("expected miss after invalidation")
	}
}

func TestCache_DisabledNeverHits(t *testing.T) {
	store := newFakeStore()
	c := New(store, false, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Hour)
	var got string
	if c.Get(ctx, "k", &got) {
		t.Fatal("disabled cache must miss")
	}
	if len(store.values) != 0 {
		t.Fatal("disabled cache must not write")
	}
}

func TestCache_StoreErrorsAreMisses(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("db down")
	c := New(store, true, 5*time.Minute)

	var got string
	if c.Get(context.Background(), "k", &got) {
		t.Fatal("store error must be a miss, not a failure")
	}
}
