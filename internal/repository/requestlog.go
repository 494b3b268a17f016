package repository

import (
	"context"
	"time"
)

func (r *Repos) RequestCountSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM request_log WHERE ip_address = $1 AND timestamp > $2`,
		ip, since)
	return count, err
}

func (r *Repos) LogRequest(ctx context.Context, ip string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO request_log (ip_address, timestamp) VALUES ($1, $2)`, ip, at)
	return err
}

func (r *Repos) DeleteRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM request_log WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
