package engine

import (
	"context"
	"math"

	"walletengine/internal/models"
	"walletengine/internal/store"
)

// Facade exposes the three named money-movement flows plus the read
// operations, each built on top of TransferEngine and the resolver.
// All state lives in the Store; Facade itself is stateless.
type Facade struct {
	db       store.Store
	cache    store.BalanceCache
	resolver *resolver
	transfer *TransferEngine
	metrics  MetricsCollector
}

// NewFacade wires a Facade from a Store and optional cache/metrics.
// Pass store.NoopBalanceCache{} / NoopMetricsCollector{} when unused.
func NewFacade(db store.Store, cache store.BalanceCache, metrics MetricsCollector) *Facade {
	return &Facade{
		db:       db,
		cache:    cache,
		resolver: newResolver(db),
		transfer: NewTransferEngine(db, cache, metrics),
		metrics:  metrics,
	}
}

// SetMaxTransferAmount configures the optional per-transaction cap
// (0 = unbounded, the spec default).
func (f *Facade) SetMaxTransferAmount(max float64) {
	f.transfer.MaxTransferAmount = max
}

func mergeMetadata(base models.JSON, extra map[string]interface{}) models.JSON {
	out := models.NewJSON(nil)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// TopUp moves funds from SYSTEM_TREASURY to the user's account.
func (f *Facade) TopUp(ctx context.Context, userID, assetCode string, amount float64, idempotencyKey string, metadata models.JSON) (*TransferResult, error) {
	return f.runFlow(ctx, flowParams{
		userID:         userID,
		assetCode:      assetCode,
		amount:         amount,
		idempotencyKey: idempotencyKey,
		metadata:       metadata,
		txType:         models.TransactionTypeTopup,
		sourceIsSystem: true,
		systemName:     models.SystemTreasury,
	})
}

// Bonus moves funds from SYSTEM_BONUS_POOL to the user's account,
// tagging metadata with the supplied reason.
func (f *Facade) Bonus(ctx context.Context, userID, assetCode string, amount float64, idempotencyKey, reason string, metadata models.JSON) (*TransferResult, error) {
	merged := mergeMetadata(metadata, map[string]interface{}{"reason": reason})
	return f.runFlow(ctx, flowParams{
		userID:         userID,
		assetCode:      assetCode,
		amount:         amount,
		idempotencyKey: idempotencyKey,
		metadata:       merged,
		txType:         models.TransactionTypeBonus,
		sourceIsSystem: true,
		systemName:     models.SystemBonusPool,
	})
}

// Spend moves funds from the user's account to SYSTEM_REVENUE,
// tagging metadata with the spent itemId.
func (f *Facade) Spend(ctx context.Context, userID, assetCode string, amount float64, idempotencyKey, itemID string, metadata models.JSON) (*TransferResult, error) {
	if itemID == "" {
		return nil, ValidationErr("itemId is required for spend")
	}
	merged := mergeMetadata(metadata, map[string]interface{}{"itemId": itemID})
	return f.runFlow(ctx, flowParams{
		userID:         userID,
		assetCode:      assetCode,
		amount:         amount,
		idempotencyKey: idempotencyKey,
		metadata:       merged,
		txType:         models.TransactionTypeSpend,
		sourceIsSystem: false,
		systemName:     models.SystemRevenue,
	})
}

type flowParams struct {
	userID         string
	assetCode      string
	amount         float64
	idempotencyKey string
	metadata       models.JSON
	txType         string
	sourceIsSystem bool // true: system->user (topUp, bonus); false: user->system (spend)
	systemName     string
}

func (f *Facade) runFlow(ctx context.Context, p flowParams) (*TransferResult, error) {
	assetType, err := f.resolver.resolveAssetType(ctx, p.assetCode)
	if err != nil {
		return nil, err
	}

	userAccount, err := f.resolver.resolveUserAccount(ctx, p.userID, assetType.ID)
	if err != nil {
		return nil, err
	}

	systemAccount, err := f.resolver.resolveSystemAccount(ctx, p.systemName, assetType.ID)
	if err != nil {
		return nil, err
	}

	fromID, toID := systemAccount.ID, userAccount.ID
	if !p.sourceIsSystem {
		fromID, toID = userAccount.ID, systemAccount.ID
	}

	return f.transfer.ExecuteTransfer(ctx, TransferParams{
		IdempotencyKey: p.idempotencyKey,
		FromAccountID:  fromID,
		ToAccountID:    toID,
		AssetTypeID:    assetType.ID,
		Amount:         p.amount,
		Type:           p.txType,
		Metadata:       p.metadata,
	}, assetType.DecimalPlaces)
}

// GetBalance returns the user's cached balance for an asset type,
// trying the BalanceCache before the Store; a cache miss or cache
// failure always falls through to a fresh Store read.
func (f *Facade) GetBalance(ctx context.Context, userID, assetCode string) (*BalanceView, error) {
	assetType, err := f.resolver.resolveAssetType(ctx, assetCode)
	if err != nil {
		return nil, err
	}

	if cached, err := f.cache.GetAccount(ctx, userID, assetType.ID); err == nil {
		return &BalanceView{Balance: cached.Balance, AssetCode: assetType.Code, AssetName: assetType.Name}, nil
	}

	account, err := f.resolver.resolveUserAccount(ctx, userID, assetType.ID)
	if err != nil {
		return nil, err
	}
	f.cache.SetAccount(ctx, account)
	return &BalanceView{Balance: account.Balance, AssetCode: assetType.Code, AssetName: assetType.Name}, nil
}

// GetHistory returns the user's LedgerEntries for an asset type,
// most-recent first, paginated. A page below 1 is treated as 1; a
// non-positive limit defaults to 20 and a limit above 100 is capped at 100.
func (f *Facade) GetHistory(ctx context.Context, userID, assetCode string, page, limit int) (*HistoryPage, error) {
	assetType, err := f.resolver.resolveAssetType(ctx, assetCode)
	if err != nil {
		return nil, err
	}
	account, err := f.resolver.resolveUserAccount(ctx, userID, assetType.ID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := (page - 1) * limit

	entries, total, err := f.db.ListLedgerEntriesByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, InternalStoreErr(err)
	}

	txIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		txIDs = append(txIDs, e.TransactionID)
	}
	txs, err := f.db.GetTransactionsByIDs(ctx, txIDs)
	if err != nil {
		return nil, InternalStoreErr(err)
	}

	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		tx := txs[e.TransactionID]
		out = append(out, HistoryEntry{
			LedgerEntry:       e,
			TransactionType:   tx.Type,
			TransactionStatus: tx.Status,
			Description:       tx.Description,
			Metadata:          tx.Metadata,
		})
	}

	return &HistoryPage{Entries: out, Total: total, Page: page, Limit: limit}, nil
}

// VerifyLedgerIntegrity recomputes the account's balance from its
// ledger entries and compares it to the cached balance. This is the
// out-of-band audit tool operators use to reconcile after a partial
// failure.
func (f *Facade) VerifyLedgerIntegrity(ctx context.Context, userID, assetCode string) (*IntegrityReport, error) {
	assetType, err := f.resolver.resolveAssetType(ctx, assetCode)
	if err != nil {
		return nil, err
	}
	account, err := f.resolver.resolveUserAccount(ctx, userID, assetType.ID)
	if err != nil {
		return nil, err
	}

	credits, debits, err := f.db.SumLedgerEntriesByAccount(ctx, account.ID)
	if err != nil {
		return nil, InternalStoreErr(err)
	}
	computed := credits - debits
	isConsistent := math.Abs(computed-account.Balance) < ledgerConsistencyEpsilon

	return &IntegrityReport{
		CachedBalance:   account.Balance,
		ComputedBalance: computed,
		IsConsistent:    isConsistent,
	}, nil
}

// VerifyAssetTypeIntegrity recomputes the double-entry invariant
// across an entire AssetType (spec invariant L3): the sum of all
// credits minus all debits must equal zero.
func (f *Facade) VerifyAssetTypeIntegrity(ctx context.Context, assetCode string) (bool, error) {
	assetType, err := f.resolver.resolveAssetType(ctx, assetCode)
	if err != nil {
		return false, err
	}
	credits, debits, err := f.db.SumLedgerEntriesByAssetType(ctx, assetType.ID)
	if err != nil {
		return false, InternalStoreErr(err)
	}
	return math.Abs(credits-debits) < ledgerConsistencyEpsilon, nil
}
