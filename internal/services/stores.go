package services

import (
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
)

// Storage contracts consumed by the services. The repositories package
// provides the Postgres implementations; tests provide in-memory ones that
// honor the same atomicity guarantees.

type AccountStore interface {
	CreateAccount(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByReferralCode(code string) (*models.Account, error)
	UpdateLoginStreak(accountID uint, streak int, lastLogin time.Time) error
	Deactivate(accountID uint) error
	ListReferred(accountID uint) ([]models.Account, error)
}

type LedgerStore interface {
	Apply(accountID uint, creditDelta float64, category, description string) (*models.Account, error)
	History(accountID uint, limit, offset int) ([]models.LedgerEntry, error)
	TotalByCategory(accountID uint, category string) (float64, error)
}

type ClaimStore interface {
	TryClaim(accountID uint, offer *models.Offer, now time.Time, draw func(*models.Account) repositories.ClaimOutcome) (*repositories.ClaimDecision, error)
	LastClaim(accountID, offerID uint) (*models.ClaimRecord, error)
}

type OfferStore interface {
	GetByID(id uint) (*models.Offer, error)
	ListActive(kind string) ([]models.Offer, error)
}

type AchievementStore interface {
	ListDefs() ([]models.AchievementDef, error)
	ListUnlocks(accountID uint) ([]models.AchievementUnlock, error)
	TryUnlock(accountID, achievementID uint, now time.Time) (bool, error)
}

type NotificationStore interface {
	ListByAccount(accountID uint, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(accountID uint) (int64, error)
	MarkRead(id, accountID uint) error
	MarkAllRead(accountID uint) error
}

type Notifier interface {
	Notify(accountID uint, title, message, category string)
}
