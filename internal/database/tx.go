package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner runs a unit of work inside a single database transaction.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner binds a TxRunner to the pool.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{db: db} }

// InTx begins a transaction with opts, hands it to fn and commits when fn
// returns nil.  Any error from fn, or a panic, rolls the transaction back;
// the error from fn is returned unchanged so callers can match it with
// errors.Is.
func (r *TxRunner) InTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
