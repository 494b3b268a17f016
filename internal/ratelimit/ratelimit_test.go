package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	entries  map[string][]time.Time
	countErr error
	logErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string][]time.Time{}}
}

func (f *fakeStore) RequestCountSince(_ context.Context, id string, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, at := range f.entries[id] {
		if at.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) LogRequest(_ context.Context, id string, at time.Time) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.entries[id] = append(f.entries[id], at)
	return nil
}

func (f *fakeStore) DeleteRequestsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, ats := range f.entries {
		kept := ats[:0]
		for _, at := range ats {
			if at.Before(cutoff) {
				deleted++
			} else {
				kept = append(kept, at)
			}
		}
		f.entries[id] = kept
	}
	return deleted, nil
}

func TestLimiter_RejectsAtMax(t *testing.T) {
	store := newFakeStore()
	l := New(store, time.Hour, 3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.Check(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
	}

	if err := l.Check(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("call 4: expected ErrRateLimited, got %v", err)
	}
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	store := newFakeStore()
	l := New(store, time.Hour, 1)

	ctx := context.Background()
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := l.Check(ctx, "10.0.0.2"); err != nil {
		t.Fatalf("second identifier should not be limited: %v", err)
	}
	if err := l.Check(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("first identifier should be limited, got %v", err)
	}
}

func TestLimiter_WindowElapses(t *testing.T) {
	store := newFakeStore()
	l := New(store, time.Hour, 1)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	ctx := context.Background()
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := l.Check(ctx, "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected limit inside window, got %v", err)
	}

	// Same identifier succeeds again after the window elapses.
	l.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("expected success after window, got %v", err)
	}
}

func TestLimiter_StoreFailuresAreNonFatal(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	store.countErr = errors.New("db down")
	l := New(store, time.Hour, 1)
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("count failure must not reject the request: %v", err)
	}

	store = newFakeStore()
	store.logErr = errors.New("db down")
	l = New(store, time.Hour, 1)
	if err := l.Check(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("log failure must not reject the request: %v", err)
	}
}
