package repository

import (
	"context"

	"homewatt/internal/domain"
)

func (r *Repos) InsertSample(ctx context.Context, s domain.PowerSample) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO power_consumption (user_id, breaker_id, voltage, current, power)
		VALUES ($1, $2, $3, $4, $5)`,
		s.UserID, s.BreakerID, s.Voltage, s.Current, s.Power)
	return err
}

// DailyUsage groups samples by calendar day and breaker over an inclusive
// date range, optionally filtered to a single breaker.
func (r *Repos) DailyUsage(ctx context.Context, userID int64, breakerID *int64, startDate, endDate string) ([]domain.DailyUsage, error) {
	out := []domain.DailyUsage{}

	q := `
		SELECT to_char(timestamp, 'YYYY-MM-DD') AS date,
		       breaker_id,
		       AVG(voltage) AS avg_voltage,
		       AVG(current) AS avg_current,
		       AVG(power) AS avg_power,
		       SUM(power) AS total_power
		FROM power_consumption
		WHERE user_id = $1 AND DATE(timestamp) BETWEEN $2::date AND $3::date`
	args := []any{userID, startDate, endDate}

	if breakerID != nil {
		q += ` AND breaker_id = $4`
		args = append(args, *breakerID)
	}

	q += ` GROUP BY to_char(timestamp, 'YYYY-MM-DD'), breaker_id ORDER BY date, breaker_id`

	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// DailyTotals groups the trailing seven days of samples by calendar day,
// all breakers combined. Feeds the projection endpoint.
func (r *Repos) DailyTotals(ctx context.Context, userID int64) ([]domain.DailyTotal, error) {
	out := []domain.DailyTotal{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT to_char(timestamp, 'YYYY-MM-DD') AS date,
		       SUM(power) AS total_power,
		       AVG(power) AS avg_power
		FROM power_consumption
		WHERE user_id = $1 AND timestamp >= NOW() - INTERVAL '7 days'
		GROUP BY to_char(timestamp, 'YYYY-MM-DD')
		ORDER BY date`, userID)
	return out, err
}
