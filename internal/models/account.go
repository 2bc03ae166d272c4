package models

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	ID            uint      `gorm:"primaryKey"`
	Username      string    `gorm:"uniqueIndex;type:varchar(50);not null"`
	PasswordHash  string    `gorm:"type:varchar(100);not null"`
	ReferralCode  string    `gorm:"uniqueIndex;type:varchar(8);not null"`
	ReferredBy    uint      `gorm:"default:0;index"`
	CreditBalance float64   `gorm:"not null;default:0"`
	PointBalance  int64     `gorm:"not null;default:0"`
	VipTier       string    `gorm:"type:varchar(20);not null;default:'BRONZE'"`
	GamesPlayed   int64     `gorm:"not null;default:0"`
	LoginStreak   int       `gorm:"not null;default:0"`
	LastLogin     time.Time `gorm:"default:NULL"`
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// BeforeSave hook guarding balance invariants. Negative balances are never
// a valid state; deltas are screened before they reach the ledger, so a
// violation here means a bug upstream.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if a.CreditBalance < 0 || a.PointBalance < 0 {
		return gorm.ErrInvalidData
	}
	if a.Username == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Account) TableName() string {
	return "accounts"
}
