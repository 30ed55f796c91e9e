package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetType is a virtual currency definition, e.g. GOLD or POINTS.
type AssetType struct {
	ID            string `gorm:"primarykey"`
	Code          string `gorm:"uniqueIndex;not null"` // normalized uppercase
	Name          string `gorm:"not null"`
	Description   string
	DecimalPlaces int  `gorm:"not null;default:2"` // 0..8
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BeforeCreate assigns the primary key when the caller hasn't already
// set one, so any direct db.Create bypassing the Store still gets a
// valid id.
func (a *AssetType) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
