package repository

import (
	"context"
	"database/sql"
	"errors"

	"homewatt/internal/domain"
)

var ErrNotFound = errors.New("not found")

func (r *Repos) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		name, email, passwordHash)
	return id, err
}

func (r *Repos) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, email, password FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (r *Repos) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

func (r *Repos) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`, passwordHash, userID)
	return err
}

// DeleteUser removes the user row; breakers, limits, samples and alerts go
// with it via ON DELETE CASCADE.
func (r *Repos) DeleteUser(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// KWhRate returns the user's configured rate, or 0.12 when no settings row
// exists.
func (r *Repos) KWhRate(ctx context.Context, userID int64) (float64, error) {
	var rate float64
	err := r.db.GetContext(ctx, &rate,
		`SELECT kwh_rate FROM user_settings WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0.12, nil
	}
	return rate, err
}

func (r *Repos) UpsertSettings(ctx context.Context, s domain.UserSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, kwh_rate, refresh_rate, theme)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			kwh_rate = EXCLUDED.kwh_rate,
			refresh_rate = EXCLUDED.refresh_rate,
			theme = EXCLUDED.theme`,
		s.UserID, s.KWhRate, s.RefreshRate, s.Theme)
	return err
}

func (r *Repos) Settings(ctx context.Context, userID int64) (domain.UserSettings, error) {
	var s domain.UserSettings
	err := r.db.GetContext(ctx, &s,
		`SELECT user_id, kwh_rate, refresh_rate, theme FROM user_settings WHERE user_id = $1`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserSettings{UserID: userID, KWhRate: 0.12, RefreshRate: 30, Theme: "light"}, nil
	}
	return s, err
}
