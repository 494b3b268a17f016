package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"homewatt/internal/domain"
)

func (r *Repos) ListBreakersWithLimits(ctx context.Context, userID int64) ([]domain.BreakerWithLimit, error) {
	out := []domain.BreakerWithLimit{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT cb.id, cb.user_id, cb.name, cb.location, cb.power_limit, cb.status,
		       cb.created_at, cb.updated_at, pl.max_power, pl.warning_threshold
		FROM circuit_breakers cb
		LEFT JOIN power_limits pl ON cb.id = pl.breaker_id
		WHERE cb.user_id = $1
		ORDER BY cb.name`, userID)
	return out, err
}

func (r *Repos) InsertBreakerTx(tx *sqlx.Tx, userID int64, name, location string, powerLimit float64) (int64, error) {
	var id int64
	err := tx.Get(&id, `
		INSERT INTO circuit_breakers (user_id, name, location, power_limit)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, name, location, powerLimit)
	return id, err
}

func (r *Repos) InsertPowerLimitTx(tx *sqlx.Tx, breakerID int64, maxPower, warningThreshold float64) error {
	_, err := tx.Exec(`
		INSERT INTO power_limits (breaker_id, max_power, warning_threshold)
		VALUES ($1, $2, $3)`,
		breakerID, maxPower, warningThreshold)
	return err
}

// Field is one allow-listed (column, value) pair for a partial update. The
// column name always comes from handler code, never from request input.
type Field struct {
	Column string
	Value  any
}

// UpdateBreakerTx applies only the supplied fields to a breaker scoped to its
// owner. The statement is generated mechanically from the pair list.
func (r *Repos) UpdateBreakerTx(tx *sqlx.Tx, breakerID, userID int64, fields []Field) error {
	if len(fields) == 0 {
		return nil
	}

	set := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for i, f := range fields {
		set = append(set, fmt.Sprintf("%s = $%d", f.Column, i+1))
		args = append(args, f.Value)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, breakerID, userID)

	q := fmt.Sprintf("UPDATE circuit_breakers SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(set, ", "), len(fields)+1, len(fields)+2)
	_, err := tx.Exec(q, args...)
	return err
}

func (r *Repos) UpdatePowerLimitTx(tx *sqlx.Tx, breakerID int64, maxPower, warningThreshold float64) error {
	_, err := tx.Exec(`
		UPDATE power_limits
		SET max_power = $1, warning_threshold = $2, updated_at = NOW()
		WHERE breaker_id = $3`,
		maxPower, warningThreshold, breakerID)
	return err
}

// DeleteBreaker removes a breaker scoped to (id, user); the cascade removes
// its power-limit row.
func (r *Repos) DeleteBreaker(ctx context.Context, breakerID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM circuit_breakers WHERE id = $1 AND user_id = $2`, breakerID, userID)
	return err
}
