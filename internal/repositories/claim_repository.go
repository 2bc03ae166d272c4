package repositories

import (
	"fmt"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaimState int

const (
	ClaimEligible ClaimState = iota
	ClaimOnCooldown
	ClaimNotEligible
)

// ClaimOutcome is the reward computed inside a successful claim. The
// multiplier is read from the account snapshot taken under the lock, never
// from an earlier call. SegmentIndex is -1 for non-segment rewards.
type ClaimOutcome struct {
	Amount       float64
	Multiplier   float64
	SegmentIndex int
	Label        string
}

type ClaimDecision struct {
	State         ClaimState
	NextAvailable time.Time
	Reason        string
	Outcome       ClaimOutcome
	Account       *models.Account
}

type ClaimRepository struct {
	db    *gorm.DB
	tiers tier.Table
}

func NewClaimRepository(db *gorm.DB, tiers tier.Table) *ClaimRepository {
	return &ClaimRepository{db: db, tiers: tiers}
}

// TryClaim atomically checks eligibility and records a claim of the offer.
// The account row is locked FOR UPDATE for the whole check-and-write, so
// two racing claims serialize: the loser blocks on the lock, then observes
// the winner's fresh claim record and gets ClaimOnCooldown. The reward draw
// runs inside the same unit against the locked account snapshot; for GAME
// offers the games-played counter advances with the claim, win or not.
func (r *ClaimRepository) TryClaim(accountID uint, offer *models.Offer, now time.Time, draw func(*models.Account) ClaimOutcome) (*ClaimDecision, error) {
	decision := &ClaimDecision{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, accountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "account not found")
			}
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to lock account")
		}

		if !account.IsActive {
			decision.State = ClaimNotEligible
			decision.Reason = "account is deactivated"
			return nil
		}

		var last models.ClaimRecord
		err := tx.Where("account_id = ? AND offer_id = ?", accountID, offer.ID).
			Order("claimed_at DESC").
			First(&last).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to read last claim")
		}
		if err == nil {
			next := last.ClaimedAt.Add(offer.Cooldown())
			if now.Before(next) {
				decision.State = ClaimOnCooldown
				decision.NextAvailable = next
				return nil
			}
		}

		if !r.tiers.Meets(account.VipTier, offer.MinTier) {
			decision.State = ClaimNotEligible
			decision.Reason = fmt.Sprintf("requires %s tier", offer.MinTier)
			return nil
		}
		if offer.StreakRequired > 0 && account.LoginStreak < offer.StreakRequired {
			decision.State = ClaimNotEligible
			decision.Reason = fmt.Sprintf("requires %d day streak", offer.StreakRequired)
			return nil
		}

		outcome := draw(&account)

		record := &models.ClaimRecord{
			AccountID: accountID,
			OfferID:   offer.ID,
			Amount:    outcome.Amount,
			ClaimedAt: now,
		}
		if err := tx.Create(record).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeTransient, "failed to record claim")
		}

		if offer.Kind == models.OfferKindGame {
			if err := tx.Model(&account).
				UpdateColumn("games_played", gorm.Expr("games_played + 1")).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeTransient, "failed to bump games played")
			}
			account.GamesPlayed++
		}

		decision.State = ClaimEligible
		decision.Outcome = outcome
		decision.Account = &account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// LastClaim returns the most recent claim of the offer by the account, or
// nil when it was never claimed. Read-only; used by status queries.
func (r *ClaimRepository) LastClaim(accountID, offerID uint) (*models.ClaimRecord, error) {
	var record models.ClaimRecord
	result := r.db.Where("account_id = ? AND offer_id = ?", accountID, offerID).
		Order("claimed_at DESC").
		First(&record)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to read last claim")
	}
	return &record, nil
}
