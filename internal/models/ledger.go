package models

import (
	"time"
)

// LedgerEntry is the append-only record of a single balance change. The sum
// of an account's entries always equals its current balances.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey"`
	AccountID   uint      `gorm:"not null;index"`
	Account     Account   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	CreditDelta float64   `gorm:"not null"`
	PointDelta  int64     `gorm:"not null"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// Entry categories
const (
	EntryGameWin       = "GAME_WIN"
	EntryBonusClaim    = "BONUS_CLAIM"
	EntryReferralBonus = "REFERRAL_BONUS"
	EntryAchievement   = "ACHIEVEMENT"
	EntryAdminCredit   = "ADMIN_CREDIT"
)

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
