package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account account types.
const (
	AccountTypeUser   = "user"
	AccountTypeSystem = "system"
)

// Well-known system account names referenced by the Operation Facade.
const (
	SystemTreasury  = "SYSTEM_TREASURY"
	SystemBonusPool = "SYSTEM_BONUS_POOL"
	SystemRevenue   = "SYSTEM_REVENUE"
)

// Account is a wallet: user-owned or system-owned, scoped to one AssetType.
type Account struct {
	ID          string  `gorm:"primarykey"`
	UserID      string  `gorm:"index:idx_account_user_asset,unique;not null"` // system account name for accountType=system
	AccountType string  `gorm:"not null"`
	AssetTypeID string  `gorm:"index:idx_account_user_asset,unique;not null"`
	Balance     float64 `gorm:"not null;default:0"` // invariant: never negative
	DisplayName string
	Metadata    JSON `gorm:"type:jsonb"`
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns the primary key when the caller hasn't already
// set one, so any direct db.Create bypassing the Store still gets a
// valid id.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
