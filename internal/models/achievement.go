package models

import (
	"time"
)

// AchievementDef is an unlockable threshold over a tracked counter.
type AchievementDef struct {
	ID            uint      `gorm:"primaryKey"`
	Code          string    `gorm:"uniqueIndex;type:varchar(50);not null"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Description   string    `gorm:"type:text"`
	Type          string    `gorm:"type:varchar(20);not null"`
	Threshold     int64     `gorm:"not null"`
	RewardCredits float64   `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// Achievement progress counters
const (
	AchievementGamesPlayed = "GAMES_PLAYED"
	AchievementStreak      = "STREAK"
	AchievementPoints      = "POINTS"
)

func (AchievementDef) TableName() string {
	return "achievement_defs"
}

// AchievementUnlock records a one-time unlock. The unique index makes the
// first insert win; a second unlock attempt affects zero rows.
type AchievementUnlock struct {
	ID            uint      `gorm:"primaryKey"`
	AccountID     uint      `gorm:"not null;uniqueIndex:idx_unlock_once"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_unlock_once"`
	UnlockedAt    time.Time `gorm:"not null"`
}

func (AchievementUnlock) TableName() string {
	return "achievement_unlocks"
}
