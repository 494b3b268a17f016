package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// WithTx runs fn inside a transaction. Any error from fn rolls the whole
// transaction back; partial writes are never visible.
func (r *Repos) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
