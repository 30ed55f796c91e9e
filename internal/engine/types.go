package engine

import (
	"time"

	"walletengine/internal/models"
)

// TransferParams are the validated inputs to executeTransfer.
type TransferParams struct {
	IdempotencyKey string
	FromAccountID  string
	ToAccountID    string
	AssetTypeID    string
	Amount         float64
	Type           string
	Description    string
	Metadata       models.JSON
}

// TransferResult is the outcome of executeTransfer, whether freshly
// executed or replayed.
type TransferResult struct {
	Transaction *models.Transaction
	IsReplay    bool
}

// BalanceView is the getBalance read-model.
type BalanceView struct {
	Balance   float64
	AssetCode string
	AssetName string
}

// HistoryEntry pairs a LedgerEntry with the fields of its owning
// Transaction that callers need without a second round trip.
type HistoryEntry struct {
	LedgerEntry        models.LedgerEntry
	TransactionType    string
	TransactionStatus  string
	Description        string
	Metadata           models.JSON
}

// HistoryPage is a paginated slice of HistoryEntry.
type HistoryPage struct {
	Entries []HistoryEntry
	Total   int64
	Page    int
	Limit   int
}

// IntegrityReport is the verifyLedgerIntegrity read-model.
type IntegrityReport struct {
	CachedBalance   float64
	ComputedBalance float64
	IsConsistent    bool
}

// MetricsCollector records engine behavior for observability. A nil
// MetricsCollector is never passed in; use NoopMetricsCollector.
type MetricsCollector interface {
	RecordOperationDuration(operation string, d time.Duration)
	RecordOperationResult(operation, result string)
	RecordTransaction(txType string, amount float64)
	RecordReplay(operation string)
	RecordCompensation(accountID string, succeeded bool)
}
