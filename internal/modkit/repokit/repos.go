// Package repokit is the thin seam between domain repos and the platform
// store: repo binding, transaction scoping and the startup guard.
package repokit

import (
	"context"

	"modelwatch/internal/platform/store"
)

// Queryer is the SQL surface snapshot repos run on, inside or outside
// a transaction
type Queryer = store.RowQuerier

// TxRunner adds transactions on top of Queryer
type TxRunner = store.TxRunner

// WithTx runs fn inside a single transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
