package repositories

import (
	"math"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/reward"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointsPolicy converts a credit amount into loyalty points. Every credit
// grant earns floor(credits / CreditsPerPoint) points.
type PointsPolicy struct {
	CreditsPerPoint int64
}

func (p PointsPolicy) PointsFor(credits float64) int64 {
	if credits <= 0 {
		return 0
	}
	return int64(math.Floor(credits / float64(p.CreditsPerPoint)))
}

type LedgerRepository struct {
	db     *gorm.DB
	tiers  tier.Table
	policy PointsPolicy
}

func NewLedgerRepository(db *gorm.DB, tiers tier.Table, policy PointsPolicy) *LedgerRepository {
	return &LedgerRepository{db: db, tiers: tiers, policy: policy}
}

// Apply credits an account and appends the matching ledger entry in one
// transaction. The point delta follows the points policy and the cached VIP
// tier is recomputed before commit, so readers never see new points with a
// stale tier. Returns the account as of after the apply.
func (r *LedgerRepository) Apply(accountID uint, creditDelta float64, category, description string) (*models.Account, error) {
	if creditDelta < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "credit delta must not be negative")
	}
	creditDelta = reward.Round2(creditDelta)
	pointDelta := r.policy.PointsFor(creditDelta)

	var account models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, accountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "account not found")
			}
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to lock account")
		}

		account.CreditBalance = reward.Round2(account.CreditBalance + creditDelta)
		account.PointBalance += pointDelta
		account.VipTier = r.tiers.TierFor(account.PointBalance).Name

		updates := map[string]interface{}{
			"credit_balance": account.CreditBalance,
			"point_balance":  account.PointBalance,
			"vip_tier":       account.VipTier,
		}
		if err := tx.Model(&account).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to update balances")
		}

		entry := &models.LedgerEntry{
			AccountID:   accountID,
			CreditDelta: creditDelta,
			PointDelta:  pointDelta,
			Category:    category,
			Description: description,
		}
		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to append ledger entry")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// History returns an account's ledger entries, newest first.
func (r *LedgerRepository) History(accountID uint, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	result := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to get ledger history")
	}
	return entries, nil
}

// SumDeltas aggregates an account's entries. Used for invariant checks:
// the sums must equal the account's current balances.
func (r *LedgerRepository) SumDeltas(accountID uint) (credits float64, points int64, err error) {
	row := struct {
		Credits float64
		Points  int64
	}{}
	result := r.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(credit_delta), 0) AS credits, COALESCE(SUM(point_delta), 0) AS points").
		Where("account_id = ?", accountID).
		Scan(&row)
	if result.Error != nil {
		return 0, 0, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to sum ledger deltas")
	}
	return row.Credits, row.Points, nil
}

// TotalByCategory sums credit deltas of one category, e.g. referral earnings.
func (r *LedgerRepository) TotalByCategory(accountID uint, category string) (float64, error) {
	var total float64
	result := r.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(credit_delta), 0)").
		Where("account_id = ? AND category = ?", accountID, category).
		Scan(&total)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to sum category total")
	}
	return total, nil
}
