// Package ratelimit bounds request frequency per client with a sliding-window
// count over the shared request log.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrRateLimited is returned when a client has exhausted its window.
var ErrRateLimited = errors.New("rate limit exceeded")

// Store is the request-log slice of the schema store.
type Store interface {
	RequestCountSince(ctx context.Context, identifier string, since time.Time) (int, error)
	LogRequest(ctx context.Context, identifier string, at time.Time) error
	DeleteRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Limiter struct {
	store  Store
	window time.Duration
	max    int
	now    func() time.Time
}

func New(store Store, window time.Duration, max int) *Limiter {
	return &Limiter{store: store, window: window, max: max, now: time.Now}
}

// Check counts the identifier's entries in the trailing window and rejects
// with ErrRateLimited at the configured maximum, before any other work. On
// success it appends one entry; the append is best-effort and never blocks
// the request. Store read failures are swallowed too: the limiter is
// advisory, not a gate on availability.
func (l *Limiter) Check(ctx context.Context, identifier string) error {
	now := l.now()

	count, err := l.store.RequestCountSince(ctx, identifier, now.Add(-l.window))
	if err != nil {
		log.Error().Err(err).Str("identifier", identifier).Msg("rate limit count failed")
		return nil
	}
	if count >= l.max {
		return ErrRateLimited
	}

	if err := l.store.LogRequest(ctx, identifier, now); err != nil {
		log.Error().Err(err).Str("identifier", identifier).Msg("request log write failed")
	}
	return nil
}

// Prune deletes entries that have aged out of the window, on a ticker, until
// ctx is done. The count query ignores old entries anyway; this bounds
// request_log growth.
func (l *Limiter) Prune(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := l.store.DeleteRequestsBefore(ctx, l.now().Add(-l.window))
			if err != nil {
				log.Error().Err(err).Msg("request log prune failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("pruned request log")
			}
		}
	}
}
