package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

// TxFunc функция, выполняемая в транзакции
type TxFunc func(tx pgx.Tx) error

// WithTransaction выполняет функцию в транзакции. Паника внутри fn
// откатывает транзакцию и пробрасывается дальше.
func WithTransaction(ctx context.Context, db DB, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // best effort on panic
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return apperror.Wrap(rbErr, apperror.CodeStorageError,
				fmt.Sprintf("rollback failed after tx error: %v", err))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Wrap(err, apperror.CodeStorageError, "failed to commit transaction")
	}

	return nil
}

// WithTransactionResult выполняет функцию в транзакции с возвратом результата
func WithTransactionResult[T any](ctx context.Context, db DB, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var result T

	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})

	return result, err
}
