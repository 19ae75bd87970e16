package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type txKey struct{}

// TxManager runs units of work inside a single database transaction.
type TxManager struct {
	pool Pool
	log  zerolog.Logger
}

// NewTxManager creates a TxManager over pool.
func NewTxManager(pool Pool, log zerolog.Logger) *TxManager {
	return &TxManager{
		pool: pool,
		log:  log.With().Str("component", "tx_manager").Logger(),
	}
}

// WithTx runs fn with a context carrying an open transaction. The
// transaction commits when fn returns nil and rolls back on error or panic.
// Calls nested inside an existing transaction join it.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Conn returns the transaction bound to ctx, or fallback outside one.
func Conn(ctx context.Context, fallback Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}
