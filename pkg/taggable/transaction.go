package taggable

import (
	"context"
	"database/sql"
	"fmt"
)

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

// DefaultTransactionOptions returns sensible defaults
func DefaultTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		Isolation: sql.LevelDefault,
		ReadOnly:  false,
	}
}

// ToTxOptions converts TransactionOptions to sql.TxOptions
func (o *TransactionOptions) ToTxOptions() *sql.TxOptions {
	if o == nil {
		return nil
	}
	return &sql.TxOptions{
		Isolation: o.Isolation,
		ReadOnly:  o.ReadOnly,
	}
}

// WithTransaction executes fn with a transaction-scoped engine. If the engine
// is already transaction-scoped, or its executor cannot begin transactions,
// fn runs against the engine as-is.
func (e *Engine) WithTransaction(ctx context.Context, fn func(*Engine) error) error {
	return e.WithTransactionOptions(ctx, nil, fn)
}

// WithTransactionOptions executes fn within a transaction with specific options
func (e *Engine) WithTransactionOptions(ctx context.Context, opts *TransactionOptions, fn func(*Engine) error) error {
	db, ok := e.db.(txBeginner)
	if !ok {
		return fn(e)
	}

	tx, err := db.BeginTxx(ctx, opts.ToTxOptions())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(e.withExecutor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// IsTransaction returns true if the engine is scoped to a transaction.
func (e *Engine) IsTransaction() bool {
	_, ok := e.db.(txBeginner)
	return !ok
}
