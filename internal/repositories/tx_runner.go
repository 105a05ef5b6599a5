package repositories

import (
	"context"
	"fmt"
)

// TxRunner executes a callback with ledger and projection repositories bound
// to a single transaction. The callback's writes commit together or not at
// all; any error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(movements MovementRepository, stock StockItemRepository) error) error
}

type txRunner struct {
	db TxBeginner
}

func NewTxRunner(db TxBeginner) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) Run(ctx context.Context, fn func(movements MovementRepository, stock StockItemRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMovementRepo(tx), NewStockItemRepo(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
