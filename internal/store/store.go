// Package store is the persistence abstraction the engine depends on.
// It exposes primitive operations over four entity collections —
// AssetType, Account, Transaction, LedgerEntry — and guarantees
// per-document atomicity plus a unique-key constraint on inserts.
// No cross-document transactions are assumed; correctness upstream
// depends only on those two guarantees.
package store

import (
	"context"
	"errors"

	"walletengine/internal/models"
)

// Sentinel errors the engine classifies against.
var (
	// ErrDuplicateKey is returned by InsertTransactionPending when the
	// (idempotencyKey, assetType) unique index already has a row.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrNotFound is returned by lookups that find nothing.
	ErrNotFound = errors.New("store: not found")

	// ErrPredicateFailed is returned by ConditionalDebitAccount when the
	// balance/active predicate did not hold at commit time.
	ErrPredicateFailed = errors.New("store: conditional update predicate failed")
)

// Store is the persistence contract the engine is built against. Any
// backend that can offer per-row conditional atomic update plus a
// unique constraint can implement it.
type Store interface {
	// AssetType
	GetAssetTypeByCode(ctx context.Context, code string) (*models.AssetType, error)
	CreateAssetType(ctx context.Context, at *models.AssetType) error

	// Account
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByUserAsset(ctx context.Context, userID, assetTypeID string) (*models.Account, error)
	GetSystemAccountByName(ctx context.Context, name, assetTypeID string) (*models.Account, error)
	CreateAccount(ctx context.Context, a *models.Account) error

	// ConditionalDebitAccount applies `balance -= amount` iff
	// `balance >= amount AND isActive`, atomically. Returns
	// ErrPredicateFailed if the predicate did not hold.
	ConditionalDebitAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error)

	// UnconditionalCreditAccount applies `balance += amount` iff
	// `isActive`, atomically.
	UnconditionalCreditAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error)

	// Transaction
	InsertTransactionPending(ctx context.Context, tx *models.Transaction) error
	GetTransactionByIdempotencyKey(ctx context.Context, idempotencyKey, assetTypeID string) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id, status, failureReason string, debitEntryID, creditEntryID string) error

	// LedgerEntry
	InsertLedgerEntry(ctx context.Context, e *models.LedgerEntry) error
	ListLedgerEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, int64, error)
	ListLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error)
	SumLedgerEntriesByAccount(ctx context.Context, accountID string) (credits, debits float64, err error)
	SumLedgerEntriesByAssetType(ctx context.Context, assetTypeID string) (credits, debits float64, err error)

	// GetTransactionsByIDs batches the parent Transactions for a
	// page of LedgerEntries, for history listings that need the owning
	// Transaction's type/description/status/metadata.
	GetTransactionsByIDs(ctx context.Context, ids []string) (map[string]models.Transaction, error)
}
