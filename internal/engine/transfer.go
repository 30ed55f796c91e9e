package engine

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"walletengine/internal/models"
	"walletengine/internal/store"
)

// TransferEngine drives the pending -> completed/failed state machine
// for a single money movement: conditional debit, unconditional
// credit, two ledger entries, in that order, with best-effort
// compensation if the credit fails after the debit has landed.
type TransferEngine struct {
	db      store.Store
	cache   store.BalanceCache
	guard   *idempotencyGuard
	metrics MetricsCollector

	// MaxTransferAmount bounds a single transfer when > 0. Zero means
	// unbounded, matching the spec's default.
	MaxTransferAmount float64
}

// NewTransferEngine wires a TransferEngine against a Store, an
// optional BalanceCache (store.NoopBalanceCache{} if unused), and a
// MetricsCollector (NoopMetricsCollector{} if unused).
func NewTransferEngine(db store.Store, cache store.BalanceCache, metrics MetricsCollector) *TransferEngine {
	return &TransferEngine{db: db, cache: cache, guard: newIdempotencyGuard(db), metrics: metrics}
}

// ExecuteTransfer is the engine's single public write operation. See
// package engine's doc comment for the full algorithm.
func (e *TransferEngine) ExecuteTransfer(ctx context.Context, p TransferParams, decimalPlaces int) (*TransferResult, error) {
	start := time.Now()
	op := "executeTransfer:" + p.Type
	defer func() { e.metrics.RecordOperationDuration(op, time.Since(start)) }()

	result, err := e.executeTransfer(ctx, p, decimalPlaces)
	if err != nil {
		var eerr *Error
		kind := "unknown"
		if errors.As(err, &eerr) {
			kind = string(eerr.Kind)
		}
		e.metrics.RecordOperationResult(op, kind)
		return nil, err
	}
	if result.IsReplay {
		e.metrics.RecordOperationResult(op, "replay")
		e.metrics.RecordReplay(op)
	} else {
		e.metrics.RecordOperationResult(op, "success")
		e.metrics.RecordTransaction(p.Type, p.Amount)
	}
	return result, nil
}

func (e *TransferEngine) executeTransfer(ctx context.Context, p TransferParams, decimalPlaces int) (*TransferResult, error) {
	key := strings.TrimSpace(p.IdempotencyKey)
	if len(key) < MinIdempotencyKeyLength {
		return nil, ValidationErr("idempotency key must be at least 8 characters after trim")
	}

	// Step 1: idempotency check.
	if existing, err := e.guard.lookup(ctx, key, p.AssetTypeID); err == nil {
		return &TransferResult{Transaction: existing, IsReplay: true}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Step 2: validation.
	if p.FromAccountID == p.ToAccountID {
		return nil, InvalidTransferErr("source and destination account must differ")
	}
	amount := roundToDecimalPlaces(p.Amount, decimalPlaces)
	if amount <= 0 {
		return nil, ValidationErr("amount must be a positive number")
	}
	if e.MaxTransferAmount > 0 && amount > e.MaxTransferAmount {
		return nil, AmountExceedsLimitErr(e.MaxTransferAmount)
	}

	// Step 3: insert pending transaction.
	tx := &models.Transaction{
		IdempotencyKey: key,
		AssetTypeID:    p.AssetTypeID,
		FromAccountID:  p.FromAccountID,
		ToAccountID:    p.ToAccountID,
		Amount:         amount,
		Type:           p.Type,
		Description:    p.Description,
		Metadata:       p.Metadata,
	}
	err := e.db.InsertTransactionPending(ctx, tx)
	if errors.Is(err, store.ErrDuplicateKey) {
		winner, rerr := e.guard.resolveRace(ctx, key, p.AssetTypeID)
		if rerr != nil {
			return nil, rerr
		}
		return &TransferResult{Transaction: winner, IsReplay: true}, nil
	}
	if err != nil {
		return nil, InternalStoreErr(err)
	}

	// Step 4: debit the source, then credit the destination. A Store
	// that acquires both account rows under one DB transaction (e.g. via
	// SELECT ... FOR UPDATE on both rows up front) should still lock them
	// in sorted-id order to avoid cross-transfer deadlocks, but that is
	// the Store's concern: engine correctness never depends on it, and
	// the mutation sequence here is fixed regardless of how the ids sort.
	debitedAccount, derr := e.db.ConditionalDebitAccount(ctx, p.FromAccountID, amount)
	if errors.Is(derr, store.ErrPredicateFailed) {
		e.failTransaction(ctx, tx.ID, "insufficient balance or inactive source account")
		return nil, InsufficientBalanceErr(p.FromAccountID)
	}
	if derr != nil {
		e.failTransaction(ctx, tx.ID, derr.Error())
		return nil, InternalStoreErr(derr)
	}
	e.invalidateCache(ctx, debitedAccount)

	creditedAccount, cerr := e.db.UnconditionalCreditAccount(ctx, p.ToAccountID, amount)
	if cerr != nil {
		e.compensate(ctx, tx.ID, p.FromAccountID, amount, cerr)
		return nil, InternalStoreErr(cerr)
	}
	e.invalidateCache(ctx, creditedAccount)

	// Step 5: paired ledger write, bounded retries per side.
	debitEntry := &models.LedgerEntry{
		TransactionID: tx.ID,
		AccountID:     p.FromAccountID,
		AssetTypeID:   p.AssetTypeID,
		EntryType:     models.EntryTypeDebit,
		Amount:        amount,
		BalanceAfter:  debitedAccount.Balance,
	}
	creditEntry := &models.LedgerEntry{
		TransactionID: tx.ID,
		AccountID:     p.ToAccountID,
		AssetTypeID:   p.AssetTypeID,
		EntryType:     models.EntryTypeCredit,
		Amount:        amount,
		BalanceAfter:  creditedAccount.Balance,
	}

	if err := e.insertLedgerEntryWithRetry(ctx, debitEntry); err != nil {
		e.failTransaction(ctx, tx.ID, "ledger write failed for debit entry: "+err.Error())
		return nil, InternalStoreErr(err)
	}
	if err := e.insertLedgerEntryWithRetry(ctx, creditEntry); err != nil {
		e.failTransaction(ctx, tx.ID, "ledger write failed for credit entry: "+err.Error())
		return nil, InternalStoreErr(err)
	}

	// Step 6: complete.
	if err := e.db.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusCompleted, "", debitEntry.ID, creditEntry.ID); err != nil {
		e.failTransaction(ctx, tx.ID, "completing transaction failed: "+err.Error())
		return nil, InternalStoreErr(err)
	}
	tx.Status = models.TransactionStatusCompleted
	tx.DebitLedgerEntryID = debitEntry.ID
	tx.CreditLedgerEntryID = creditEntry.ID

	return &TransferResult{Transaction: tx, IsReplay: false}, nil
}

func (e *TransferEngine) insertLedgerEntryWithRetry(ctx context.Context, entry *models.LedgerEntry) error {
	var lastErr error
	for attempt := 1; attempt <= ledgerWriteMaxAttempts; attempt++ {
		if err := e.db.InsertLedgerEntry(ctx, entry); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// compensate best-effort reverses a debit that already committed when
// the paired credit failed. Failure to compensate leaves the
// transaction failed with the double-fault recorded for an
// out-of-band audit.
func (e *TransferEngine) compensate(ctx context.Context, txID, debitedAccountID string, amount float64, creditErr error) {
	reversed, err := e.db.UnconditionalCreditAccount(ctx, debitedAccountID, amount)
	if err != nil {
		e.metrics.RecordCompensation(debitedAccountID, false)
		log.Printf("engine: compensation double-fault on account %s: credit error=%v, compensation error=%v", debitedAccountID, creditErr, err)
		e.failTransaction(ctx, txID, "credit failed and compensation double-faulted: "+err.Error())
		return
	}
	e.metrics.RecordCompensation(debitedAccountID, true)
	e.invalidateCache(ctx, reversed)
	e.failTransaction(ctx, txID, "credit failed after debit committed; debit reversed by compensation: "+creditErr.Error())
}

func (e *TransferEngine) failTransaction(ctx context.Context, txID, reason string) {
	if err := e.db.UpdateTransactionStatus(ctx, txID, models.TransactionStatusFailed, reason, "", ""); err != nil {
		log.Printf("engine: failed to mark transaction %s as failed: %v", txID, err)
	}
}

func (e *TransferEngine) invalidateCache(ctx context.Context, a *models.Account) {
	if err := e.cache.Invalidate(ctx, a.UserID, a.AssetTypeID); err != nil {
		log.Printf("engine: cache invalidation failed for account %s: %v", a.ID, err)
	}
}

// roundToDecimalPlaces applies half-even rounding, matching the
// spec's precision policy: the engine never rejects on precision
// alone, it normalizes.
func roundToDecimalPlaces(amount float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	factor := math.Pow(10, float64(places))
	return math.RoundToEven(amount*factor) / factor
}
