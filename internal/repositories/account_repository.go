package repositories

import (
	"strings"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/pkg/errors"
	"github.com/loyaltyhub/core/pkg/utils"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account, generating a unique referral code.
// Retries a handful of times on referral-code collisions.
func (r *AccountRepository) CreateAccount(account *models.Account) error {
	for attempt := 0; attempt < 3; attempt++ {
		if account.ReferralCode == "" {
			account.ReferralCode = utils.GenerateReferralCode(8)
		}

		err := r.db.Create(account).Error
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			var count int64
			r.db.Model(&models.Account{}).Where("username = ?", account.Username).Count(&count)
			if count > 0 {
				return errors.New(errors.ErrCodeAlreadyExists, "username already exists")
			}
			account.ReferralCode = ""
			continue
		}
		return errors.Wrap(err, errors.ErrCodeTransient, "failed to create account")
	}
	return errors.New(errors.ErrCodeInternalError, "could not allocate a referral code")
}

func isUniqueViolation(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func (r *AccountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.First(&account, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to get account")
	}
	return &account, nil
}

func (r *AccountRepository) GetByUsername(username string) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("username = ?", username).First(&account)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to get account")
	}
	return &account, nil
}

func (r *AccountRepository) GetByReferralCode(code string) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("referral_code = ?", code).First(&account)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "referral code not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to get account")
	}
	return &account, nil
}

// UpdateLoginStreak records a login: streak counter plus last-login time.
func (r *AccountRepository) UpdateLoginStreak(accountID uint, streak int, lastLogin time.Time) error {
	result := r.db.Model(&models.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"login_streak": streak,
		"last_login":   lastLogin,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to update login streak")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "account not found")
	}
	return nil
}

// Deactivate disables an account. Accounts are never deleted; the ledger
// history must stay accountable.
func (r *AccountRepository) Deactivate(accountID uint) error {
	result := r.db.Model(&models.Account{}).Where("id = ?", accountID).Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to deactivate account")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "account not found")
	}
	return nil
}

// ListReferred returns the accounts referred by the given account.
func (r *AccountRepository) ListReferred(accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	result := r.db.Where("referred_by = ?", accountID).
		Order("created_at DESC").
		Find(&accounts)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to list referrals")
	}
	return accounts, nil
}
