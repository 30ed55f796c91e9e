package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger entry types. Credit raises a balance, debit lowers it.
const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

// LedgerEntry is one immutable half of a double-entry record. Append-only:
// never updated, never deleted.
type LedgerEntry struct {
	ID            string    `gorm:"primarykey"`
	TransactionID string    `gorm:"index:idx_ledger_tx_type;not null"`
	AccountID     string    `gorm:"index:idx_ledger_account_created;not null"`
	AssetTypeID   string    `gorm:"not null"`
	EntryType     string    `gorm:"index:idx_ledger_tx_type;not null"`
	Amount        float64   `gorm:"not null"`
	BalanceAfter  float64   `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index:idx_ledger_account_created"`
}

// BeforeCreate assigns the primary key when the caller hasn't already
// set one, so any direct db.Create bypassing the Store still gets a
// valid id.
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
