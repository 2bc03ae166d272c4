package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer is a cooldown-gated reward action. GAME offers draw a reward from a
// [MinReward, MaxReward] range, or from the Segments table when one is set.
// BONUS offers grant a fixed CreditAmount and may require a login streak.
type Offer struct {
	ID             uint      `gorm:"primaryKey"`
	Code           string    `gorm:"uniqueIndex;type:varchar(50);not null"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Description    string    `gorm:"type:text"`
	Kind           string    `gorm:"type:varchar(10);not null;index"`
	GameType       string    `gorm:"type:varchar(20)"`
	MinReward      float64   `gorm:"not null;default:0"`
	MaxReward      float64   `gorm:"not null;default:0"`
	Segments       string    `gorm:"type:text"`
	MinTier        string    `gorm:"type:varchar(20)"`
	CreditAmount   float64   `gorm:"not null;default:0"`
	StreakRequired int       `gorm:"not null;default:0"`
	CooldownHours  int       `gorm:"not null;default:24"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Offer kinds
const (
	OfferKindGame  = "GAME"
	OfferKindBonus = "BONUS"
)

// Game presentation types
const (
	GameTypeWheel   = "WHEEL"
	GameTypeCookie  = "COOKIE"
	GameTypeScratch = "SCRATCH"
)

func (o *Offer) Cooldown() time.Duration {
	return time.Duration(o.CooldownHours) * time.Hour
}

func (o *Offer) BeforeSave(tx *gorm.DB) error {
	if o.Kind != OfferKindGame && o.Kind != OfferKindBonus {
		return gorm.ErrInvalidData
	}
	if o.MinReward > o.MaxReward {
		return gorm.ErrInvalidData
	}
	if o.CooldownHours < 0 || o.StreakRequired < 0 || o.CreditAmount < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Offer) TableName() string {
	return "offers"
}

// ClaimRecord marks one successful claim of an offer. The most recent row
// per (account, offer) determines the next-eligible time.
type ClaimRecord struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"not null;index:idx_claims_account_offer"`
	OfferID   uint      `gorm:"not null;index:idx_claims_account_offer"`
	Amount    float64   `gorm:"not null"`
	ClaimedAt time.Time `gorm:"not null;index"`
}

func (ClaimRecord) TableName() string {
	return "claim_records"
}
