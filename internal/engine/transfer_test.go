package engine

import (
	"context"
	"errors"
	"testing"

	"walletengine/internal/models"
	"walletengine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestEngine(db *mockStore) *TransferEngine {
	return NewTransferEngine(db, store.NoopBalanceCache{}, NoopMetricsCollector{})
}

func baseParams() TransferParams {
	return TransferParams{
		IdempotencyKey: "idem-key-1",
		FromAccountID:  "acc-from",
		ToAccountID:    "acc-to",
		AssetTypeID:    "asset-gold",
		Amount:         100,
		Type:           models.TransactionTypeTopup,
	}
}

// P2: a completed transfer produces exactly two ledger entries, debit
// then credit, each carrying the post-update balance.
func TestExecuteTransfer_Success(t *testing.T) {
	db := new(mockStore)
	p := baseParams()

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound)
	db.On("InsertTransactionPending", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Return(nil)
	db.On("ConditionalDebitAccount", mock.Anything, p.FromAccountID, p.Amount).
		Return(&models.Account{ID: p.FromAccountID, Balance: 400}, nil)
	db.On("UnconditionalCreditAccount", mock.Anything, p.ToAccountID, p.Amount).
		Return(&models.Account{ID: p.ToAccountID, Balance: 600}, nil)
	db.On("InsertLedgerEntry", mock.Anything, mock.AnythingOfType("*models.LedgerEntry")).
		Return(nil)
	db.On("UpdateTransactionStatus", mock.Anything, mock.Anything, models.TransactionStatusCompleted, "", mock.Anything, mock.Anything).
		Return(nil)

	e := newTestEngine(db)
	result, err := e.ExecuteTransfer(context.Background(), p, 2)

	assert.NoError(t, err)
	assert.False(t, result.IsReplay)
	assert.Equal(t, models.TransactionStatusCompleted, result.Transaction.Status)
	assert.NotEmpty(t, result.Transaction.DebitLedgerEntryID)
	assert.NotEmpty(t, result.Transaction.CreditLedgerEntryID)

	insertLedgerCalls := 0
	for _, c := range db.Calls {
		if c.Method == "InsertLedgerEntry" {
			insertLedgerCalls++
			entry := c.Arguments.Get(1).(*models.LedgerEntry)
			if entry.AccountID == p.FromAccountID {
				assert.Equal(t, models.EntryTypeDebit, entry.EntryType)
				assert.Equal(t, 400.0, entry.BalanceAfter)
			} else {
				assert.Equal(t, models.EntryTypeCredit, entry.EntryType)
				assert.Equal(t, 600.0, entry.BalanceAfter)
			}
		}
	}
	assert.Equal(t, 2, insertLedgerCalls)
	db.AssertExpectations(t)
}

// R1: replaying an already-completed idempotency key returns the
// original transaction without touching balances or ledgers again.
func TestExecuteTransfer_Replay(t *testing.T) {
	db := new(mockStore)
	p := baseParams()

	existing := &models.Transaction{
		ID:             "tx-existing",
		IdempotencyKey: p.IdempotencyKey,
		AssetTypeID:    p.AssetTypeID,
		Amount:         100,
		Status:         models.TransactionStatusCompleted,
	}
	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(existing, nil)

	e := newTestEngine(db)
	result, err := e.ExecuteTransfer(context.Background(), p, 2)

	assert.NoError(t, err)
	assert.True(t, result.IsReplay)
	assert.Equal(t, existing, result.Transaction)
	db.AssertNotCalled(t, "ConditionalDebitAccount", mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "InsertTransactionPending", mock.Anything, mock.Anything)
}

// R2: a replay ignores a different amount supplied on the retry — the
// original transaction's amount wins, never the resubmitted one.
func TestExecuteTransfer_ReplayIgnoresNewAmount(t *testing.T) {
	db := new(mockStore)
	p := baseParams()
	p.Amount = 9999 // different from the original transaction below

	existing := &models.Transaction{
		ID:             "tx-existing",
		IdempotencyKey: p.IdempotencyKey,
		AssetTypeID:    p.AssetTypeID,
		Amount:         100,
		Status:         models.TransactionStatusCompleted,
	}
	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(existing, nil)

	e := newTestEngine(db)
	result, err := e.ExecuteTransfer(context.Background(), p, 2)

	assert.NoError(t, err)
	assert.True(t, result.IsReplay)
	assert.Equal(t, 100.0, result.Transaction.Amount)
}

// B1: non-positive amounts are rejected before any state mutation.
func TestExecuteTransfer_InvalidAmount(t *testing.T) {
	db := new(mockStore)
	p := baseParams()
	p.Amount = 0

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound)

	e := newTestEngine(db)
	_, err := e.ExecuteTransfer(context.Background(), p, 2)

	var eerr *Error
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, KindValidation, eerr.Kind)
	db.AssertNotCalled(t, "InsertTransactionPending", mock.Anything, mock.Anything)
}

// B2: idempotency keys shorter than the minimum are rejected outright,
// without ever reaching the store.
func TestExecuteTransfer_ShortIdempotencyKey(t *testing.T) {
	db := new(mockStore)
	p := baseParams()
	p.IdempotencyKey = "short"

	e := newTestEngine(db)
	_, err := e.ExecuteTransfer(context.Background(), p, 2)

	var eerr *Error
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, KindValidation, eerr.Kind)
	db.AssertNotCalled(t, "GetTransactionByIdempotencyKey", mock.Anything, mock.Anything, mock.Anything)
}

// same account source/destination is always invalid, regardless of amount.
func TestExecuteTransfer_SameAccount(t *testing.T) {
	db := new(mockStore)
	p := baseParams()
	p.ToAccountID = p.FromAccountID

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound)

	e := newTestEngine(db)
	_, err := e.ExecuteTransfer(context.Background(), p, 2)

	var eerr *Error
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, KindInvalidTransfer, eerr.Kind)
}

// B4: a predicate failure on the conditional debit (insufficient
// balance or inactive account) fails the transaction and never credits.
func TestExecuteTransfer_InsufficientBalance(t *testing.T) {
	db := new(mockStore)
	p := baseParams()

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound)
	db.On("InsertTransactionPending", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Return(nil)
	db.On("ConditionalDebitAccount", mock.Anything, p.FromAccountID, p.Amount).
		Return(nil, store.ErrPredicateFailed)
	db.On("UpdateTransactionStatus", mock.Anything, mock.Anything, models.TransactionStatusFailed, mock.Anything, "", "").
		Return(nil)

	e := newTestEngine(db)
	_, err := e.ExecuteTransfer(context.Background(), p, 2)

	var eerr *Error
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, KindInsufficientFund, eerr.Kind)
	db.AssertNotCalled(t, "UnconditionalCreditAccount", mock.Anything, mock.Anything, mock.Anything)
}

// B5: a duplicate-key insert failure (concurrent identical-key writer)
// is resolved by re-reading the winner's transaction, not by erroring.
func TestExecuteTransfer_DuplicateKeyRaceResolves(t *testing.T) {
	db := new(mockStore)
	p := baseParams()

	winner := &models.Transaction{
		ID:             "tx-winner",
		IdempotencyKey: p.IdempotencyKey,
		AssetTypeID:    p.AssetTypeID,
		Amount:         p.Amount,
		Status:         models.TransactionStatusCompleted,
	}

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound).Once()
	db.On("InsertTransactionPending", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Return(store.ErrDuplicateKey)
	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(winner, nil).Once()

	e := newTestEngine(db)
	result, err := e.ExecuteTransfer(context.Background(), p, 2)

	assert.NoError(t, err)
	assert.True(t, result.IsReplay)
	assert.Equal(t, winner, result.Transaction)
}

// Credit failure after a committed debit triggers best-effort
// compensation: the debited account is credited back and the
// transaction ends failed, never left half-applied.
func TestExecuteTransfer_CreditFailsTriggersCompensation(t *testing.T) {
	db := new(mockStore)
	p := baseParams()

	db.On("GetTransactionByIdempotencyKey", mock.Anything, p.IdempotencyKey, p.AssetTypeID).
		Return(nil, store.ErrNotFound)
	db.On("InsertTransactionPending", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Return(nil)
	db.On("ConditionalDebitAccount", mock.Anything, p.FromAccountID, p.Amount).
		Return(&models.Account{ID: p.FromAccountID, Balance: 400}, nil)
	db.On("UnconditionalCreditAccount", mock.Anything, p.ToAccountID, p.Amount).
		Return(nil, errors.New("connection reset")).Once()
	// compensation: reverse the debit by crediting it back.
	db.On("UnconditionalCreditAccount", mock.Anything, p.FromAccountID, p.Amount).
		Return(&models.Account{ID: p.FromAccountID, Balance: 500}, nil).Once()
	db.On("UpdateTransactionStatus", mock.Anything, mock.Anything, models.TransactionStatusFailed, mock.Anything, "", "").
		Return(nil)

	e := newTestEngine(db)
	_, err := e.ExecuteTransfer(context.Background(), p, 2)

	var eerr *Error
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, KindInternalStore, eerr.Kind)
	db.AssertExpectations(t)
}

func TestRoundToDecimalPlaces(t *testing.T) {
	assert.Equal(t, 1.23, roundToDecimalPlaces(1.234, 2))
	assert.Equal(t, 1.24, roundToDecimalPlaces(1.235, 2)) // RoundToEven: 1.235*100=123.5 -> 124
	assert.Equal(t, 5.0, roundToDecimalPlaces(5.001, 0))
}
