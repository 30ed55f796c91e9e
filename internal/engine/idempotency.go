package engine

import (
	"context"
	"errors"
	"time"

	"walletengine/internal/models"
	"walletengine/internal/store"
)

// idempotencyGuard enforces at-most-once execution per
// (idempotencyKey, assetType): the unique index on Transaction is the
// authoritative lock, not an in-process mutex.
type idempotencyGuard struct {
	db store.Store
}

func newIdempotencyGuard(db store.Store) *idempotencyGuard {
	return &idempotencyGuard{db: db}
}

// lookup returns the existing Transaction for (idempotencyKey,
// assetTypeID), or store.ErrNotFound if none exists yet.
func (g *idempotencyGuard) lookup(ctx context.Context, idempotencyKey, assetTypeID string) (*models.Transaction, error) {
	tx, err := g.db.GetTransactionByIdempotencyKey(ctx, idempotencyKey, assetTypeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, InternalStoreErr(err)
	}
	return tx, nil
}

// resolveRace is invoked after InsertTransactionPending fails with
// ErrDuplicateKey: a concurrent worker won the insert race. Re-read by
// the same key with a short bounded exponential backoff, honoring
// read-your-writes delay rather than the original's single fixed
// sleep. Returns TransactionConflict if nothing is visible in time.
func (g *idempotencyGuard) resolveRace(ctx context.Context, idempotencyKey, assetTypeID string) (*models.Transaction, error) {
	wait := duplicateKeyInitialWait
	var waited time.Duration

	for attempt := 1; attempt <= duplicateKeyMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, InternalStoreErr(ctx.Err())
		case <-time.After(wait):
		}
		waited += wait

		tx, err := g.db.GetTransactionByIdempotencyKey(ctx, idempotencyKey, assetTypeID)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, InternalStoreErr(err)
		}

		wait *= 2
		if waited+wait > duplicateKeyMaxTotalWait {
			wait = duplicateKeyMaxTotalWait - waited
			if wait <= 0 {
				break
			}
		}
	}

	return nil, TransactionConflictErr(idempotencyKey)
}
