package utils

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server-yool/internal/interfaces"
)

// RunInTransaction begins a transaction, runs fn and commits. Any error from fn
// or from the commit rolls the transaction back and is returned unchanged.
func RunInTransaction(ctx context.Context, pool interfaces.PgxPoolIface, fn func(tx pgx.Tx) error) error {
	LogMessageWithFields(ctx, "debug", "Beginning transaction...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error beginning transaction", err)
		return err
	}

	if err = fn(tx); err != nil {
		rollbackTransaction(ctx, tx)
		return err
	}

	LogMessageWithFields(ctx, "debug", "Committing transaction...")
	if err = tx.Commit(ctx); err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error committing transaction", err)
		rollbackTransaction(ctx, tx)
		return err
	}

	LogMessageWithFields(ctx, "debug", "Transaction committed")
	return nil
}

func rollbackTransaction(ctx context.Context, tx pgx.Tx) {
	LogMessageWithFields(ctx, "debug", "Rolling back transaction...")

	if err := tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return
		}
		LogMessageWithFieldsAndError(ctx, "error", "Error rolling back transaction", err)
		return
	}
	LogMessageWithFields(ctx, "debug", "Transaction rolled back")
}
