package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CacheGet returns the stored value and its expiry for a key. Expiry
// filtering is the caller's concern so the read stays a plain lookup.
func (r *Repos) CacheGet(ctx context.Context, key string) (string, time.Time, bool, error) {
	var row struct {
		Value     string    `db:"cache_value"`
		ExpiresAt time.Time `db:"expires_at"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT cache_value, expires_at FROM data_cache WHERE cache_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, err
	}
	return row.Value, row.ExpiresAt, true, nil
}

func (r *Repos) CacheUpsert(ctx context.Context, key, value string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO data_cache (cache_key, cache_value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET
			cache_value = EXCLUDED.cache_value,
			expires_at = EXCLUDED.expires_at`,
		key, value, expiresAt)
	return err
}

// CacheSweep deletes expired rows. Reads already filter on expiry, so this
// only bounds table growth.
func (r *Repos) CacheSweep(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
