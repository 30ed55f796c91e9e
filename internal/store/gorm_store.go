package store

import (
	"context"
	"errors"
	"fmt"

	"walletengine/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// gormStore implements Store on top of GORM + Postgres.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an existing *gorm.DB as a Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func classifyWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateKey
	}
	return fmt.Errorf("store: %w", err)
}

func (s *gormStore) GetAssetTypeByCode(ctx context.Context, code string) (*models.AssetType, error) {
	var at models.AssetType
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&at).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get asset type: %w", err)
	}
	return &at, nil
}

func (s *gormStore) CreateAssetType(ctx context.Context, at *models.AssetType) error {
	if err := s.db.WithContext(ctx).Create(at).Error; err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

func (s *gormStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get account: %w", err)
	}
	return &a, nil
}

func (s *gormStore) GetAccountByUserAsset(ctx context.Context, userID, assetTypeID string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).
		Where("account_type = ? AND user_id = ? AND asset_type_id = ?", models.AccountTypeUser, userID, assetTypeID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user account: %w", err)
	}
	return &a, nil
}

func (s *gormStore) GetSystemAccountByName(ctx context.Context, name, assetTypeID string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).
		Where("account_type = ? AND user_id = ? AND asset_type_id = ?", models.AccountTypeSystem, name, assetTypeID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get system account: %w", err)
	}
	return &a, nil
}

func (s *gormStore) CreateAccount(ctx context.Context, a *models.Account) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

// ConditionalDebitAccount implements the Store's conditional atomic
// update: a single predicated UPDATE, not a read-then-write. RowsAffected
// == 0 means the predicate (balance >= amount AND isActive) did not hold.
func (s *gormStore) ConditionalDebitAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND balance >= ? AND is_active = ?", accountID, amount, true).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return nil, fmt.Errorf("store: conditional debit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPredicateFailed
	}
	return s.GetAccountByID(ctx, accountID)
}

// UnconditionalCreditAccount applies balance += amount iff the account
// is still active; it does not check balance.
func (s *gormStore) UnconditionalCreditAccount(ctx context.Context, accountID string, amount float64) (*models.Account, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND is_active = ?", accountID, true).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return nil, fmt.Errorf("store: unconditional credit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPredicateFailed
	}
	return s.GetAccountByID(ctx, accountID)
}

func (s *gormStore) InsertTransactionPending(ctx context.Context, tx *models.Transaction) error {
	tx.Status = models.TransactionStatusPending
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

func (s *gormStore) GetTransactionByIdempotencyKey(ctx context.Context, idempotencyKey, assetTypeID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).
		Where("idempotency_key = ? AND asset_type_id = ?", idempotencyKey, assetTypeID).
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction by idempotency key: %w", err)
	}
	return &tx, nil
}

func (s *gormStore) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction: %w", err)
	}
	return &tx, nil
}

func (s *gormStore) UpdateTransactionStatus(ctx context.Context, id, status, failureReason string, debitEntryID, creditEntryID string) error {
	updates := map[string]interface{}{
		"status":                 status,
		"failure_reason":         failureReason,
		"debit_ledger_entry_id":  debitEntryID,
		"credit_ledger_entry_id": creditEntryID,
	}
	result := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("store: update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) InsertLedgerEntry(ctx context.Context, e *models.LedgerEntry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("store: insert ledger entry: %w", err)
	}
	return nil
}

func (s *gormStore) ListLedgerEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("account_id = ?", accountID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("store: count ledger entries: %w", err)
	}

	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("store: list ledger entries: %w", err)
	}
	return entries, total, nil
}

func (s *gormStore) ListLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("store: list ledger entries by transaction: %w", err)
	}
	return entries, nil
}

func (s *gormStore) SumLedgerEntriesByAccount(ctx context.Context, accountID string) (credits, debits float64, err error) {
	if err = s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("account_id = ? AND entry_type = ?", accountID, models.EntryTypeCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&credits).Error; err != nil {
		return 0, 0, fmt.Errorf("store: sum credits: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("account_id = ? AND entry_type = ?", accountID, models.EntryTypeDebit).
		Select("COALESCE(SUM(amount), 0)").Scan(&debits).Error; err != nil {
		return 0, 0, fmt.Errorf("store: sum debits: %w", err)
	}
	return credits, debits, nil
}

func (s *gormStore) SumLedgerEntriesByAssetType(ctx context.Context, assetTypeID string) (credits, debits float64, err error) {
	if err = s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("asset_type_id = ? AND entry_type = ?", assetTypeID, models.EntryTypeCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&credits).Error; err != nil {
		return 0, 0, fmt.Errorf("store: sum asset credits: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("asset_type_id = ? AND entry_type = ?", assetTypeID, models.EntryTypeDebit).
		Select("COALESCE(SUM(amount), 0)").Scan(&debits).Error; err != nil {
		return 0, 0, fmt.Errorf("store: sum asset debits: %w", err)
	}
	return credits, debits, nil
}

func (s *gormStore) GetTransactionsByIDs(ctx context.Context, ids []string) (map[string]models.Transaction, error) {
	if len(ids) == 0 {
		return map[string]models.Transaction{}, nil
	}
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("store: get transactions by ids: %w", err)
	}
	out := make(map[string]models.Transaction, len(txs))
	for _, t := range txs {
		out[t.ID] = t
	}
	return out, nil
}
