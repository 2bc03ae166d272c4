package models

import (
	"time"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"not null;index"`
	Title     string    `gorm:"type:varchar(100);not null"`
	Message   string    `gorm:"type:text;not null"`
	Category  string    `gorm:"type:varchar(20);not null;default:'SYSTEM'"`
	IsRead    bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Notification categories
const (
	NotifyBonus       = "BONUS"
	NotifyGame        = "GAME"
	NotifyAchievement = "ACHIEVEMENT"
	NotifyReferral    = "REFERRAL"
	NotifySystem      = "SYSTEM"
)

func (Notification) TableName() string {
	return "notifications"
}
