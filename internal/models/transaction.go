package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types recognized by the Transfer Engine.
const (
	TransactionTypeTopup      = "topup"
	TransactionTypeBonus      = "bonus"
	TransactionTypeSpend      = "spend"
	TransactionTypeAdjustment = "adjustment"
)

// Transaction lifecycle states. Terminal once completed or failed.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction records one money-movement event and owns exactly two
// LedgerEntries once completed.
type Transaction struct {
	ID                  string `gorm:"primarykey"`
	IdempotencyKey      string `gorm:"index:idx_tx_idem_asset,unique;not null"`
	AssetTypeID         string `gorm:"index:idx_tx_idem_asset,unique;not null"`
	FromAccountID       string  `gorm:"not null"`
	ToAccountID         string  `gorm:"not null"`
	Amount              float64 `gorm:"not null"`
	Type                string  `gorm:"not null"`
	Status              string  `gorm:"not null;default:'pending'"`
	Description         string
	Metadata            JSON `gorm:"type:jsonb"`
	FailureReason       string
	DebitLedgerEntryID  string
	CreditLedgerEntryID string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BeforeCreate assigns the primary key when the caller hasn't already
// set one, so any direct db.Create bypassing the Store still gets a
// valid id.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
