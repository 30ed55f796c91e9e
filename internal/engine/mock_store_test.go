package engine

import (
	"context"

	"walletengine/internal/models"
	"walletengine/internal/store"

	"github.com/stretchr/testify/mock"
)

// mockStore is a testify mock implementing store.Store, used to drive
// the Transfer Engine and Facade without a real database.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetAssetTypeByCode(ctx context.Context, code string) (*models.AssetType, error) {
	args := m.Called(ctx, code)
	at, _ := args.Get(0).(*models.AssetType)
	return at, args.Error(1)
}

func (m *mockStore) CreateAssetType(ctx context.Context, at *models.AssetType) error {
	args := m.Called(ctx, at)
	return args.Error(0)
}

func (m *mockStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockStore) GetAccountByUserAsset(ctx context.Context, userID, assetTypeID string) (*models.Account, error) {
	args := m.Called(ctx, userID, assetTypeID)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockStore) GetSystemAccountByName(ctx context.Context, name, assetTypeID string) (*models.Account, error) {
	args := m.Called(ctx, name, assetTypeID)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockStore) CreateAccount(ctx context.Context, a *models.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockStore) ConditionalDebitAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockStore) UnconditionalCreditAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error) {
	args := m.Called(ctx, accountID, amount)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockStore) InsertTransactionPending(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	if tx.ID == "" {
		tx.ID = "tx-" + tx.IdempotencyKey
	}
	return args.Error(0)
}

func (m *mockStore) GetTransactionByIdempotencyKey(ctx context.Context, idempotencyKey, assetTypeID string) (*models.Transaction, error) {
	args := m.Called(ctx, idempotencyKey, assetTypeID)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) UpdateTransactionStatus(ctx context.Context, id, status, failureReason string, debitEntryID, creditEntryID string) error {
	args := m.Called(ctx, id, status, failureReason, debitEntryID, creditEntryID)
	return args.Error(0)
}

func (m *mockStore) InsertLedgerEntry(ctx context.Context, e *models.LedgerEntry) error {
	args := m.Called(ctx, e)
	if e.ID == "" {
		e.ID = "entry-" + e.AccountID + "-" + e.EntryType
	}
	return args.Error(0)
}

func (m *mockStore) ListLedgerEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, int64, error) {
	args := m.Called(ctx, accountID, limit, offset)
	entries, _ := args.Get(0).([]models.LedgerEntry)
	total, _ := args.Get(1).(int64)
	return entries, total, args.Error(2)
}

func (m *mockStore) ListLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	args := m.Called(ctx, transactionID)
	entries, _ := args.Get(0).([]models.LedgerEntry)
	return entries, args.Error(1)
}

func (m *mockStore) SumLedgerEntriesByAccount(ctx context.Context, accountID string) (float64, float64, error) {
	args := m.Called(ctx, accountID)
	credits, _ := args.Get(0).(float64)
	debits, _ := args.Get(1).(float64)
	return credits, debits, args.Error(2)
}

func (m *mockStore) SumLedgerEntriesByAssetType(ctx context.Context, assetTypeID string) (float64, float64, error) {
	args := m.Called(ctx, assetTypeID)
	credits, _ := args.Get(0).(float64)
	debits, _ := args.Get(1).(float64)
	return credits, debits, args.Error(2)
}

func (m *mockStore) GetTransactionsByIDs(ctx context.Context, ids []string) (map[string]models.Transaction, error) {
	args := m.Called(ctx, ids)
	txs, _ := args.Get(0).(map[string]models.Transaction)
	return txs, args.Error(1)
}

var _ store.Store = (*mockStore)(nil)
