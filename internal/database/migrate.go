package database

import "github.com/jmoiron/sqlx"

// Migrate creates the schema if it does not exist. Statements run in one
// transaction so a failed migration leaves the database untouched.
func Migrate(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users (email)`,

	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		kwh_rate DOUBLE PRECISION NOT NULL DEFAULT 0.12,
		refresh_rate INT NOT NULL DEFAULT 30,
		theme VARCHAR(20) NOT NULL DEFAULT 'light'
	)`,

	`CREATE TABLE IF NOT EXISTS circuit_breakers (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		power_limit DOUBLE PRECISION NOT NULL,
		status VARCHAR(3) NOT NULL DEFAULT 'Off' CHECK (status IN ('On', 'Off')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_breakers_user_id ON circuit_breakers (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_breakers_status ON circuit_breakers (status)`,

	`CREATE TABLE IF NOT EXISTS power_limits (
		id SERIAL PRIMARY KEY,
		breaker_id INT NOT NULL REFERENCES circuit_breakers(id) ON DELETE CASCADE,
		max_power DOUBLE PRECISION NOT NULL,
		warning_threshold DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_power_limits_breaker_id ON power_limits (breaker_id)`,

	`CREATE TABLE IF NOT EXISTS power_consumption (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		breaker_id INT NOT NULL REFERENCES circuit_breakers(id) ON DELETE CASCADE,
		voltage DOUBLE PRECISION NOT NULL,
		current DOUBLE PRECISION NOT NULL,
		power DOUBLE PRECISION NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_power_user_timestamp ON power_consumption (user_id, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_power_breaker_timestamp ON power_consumption (breaker_id, timestamp)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		breaker_id INT NOT NULL REFERENCES circuit_breakers(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL CHECK (type IN ('overload', 'voltage', 'current')),
		message TEXT NOT NULL,
		severity VARCHAR(10) NOT NULL CHECK (severity IN ('low', 'medium', 'high')),
		status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'resolved')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_user_status ON alerts (user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_breaker_status ON alerts (breaker_id, status)`,

	`CREATE TABLE IF NOT EXISTS data_cache (
		id SERIAL PRIMARY KEY,
		cache_key VARCHAR(255) NOT NULL UNIQUE,
		cache_value TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_data_cache_expires_at ON data_cache (expires_at)`,

	`CREATE TABLE IF NOT EXISTS request_log (
		id SERIAL PRIMARY KEY,
		ip_address VARCHAR(45) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_request_log_ip_timestamp ON request_log (ip_address, timestamp)`,
}
