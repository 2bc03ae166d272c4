package services

import (
	"fmt"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/loyaltyhub/core/internal/reward"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
	"github.com/loyaltyhub/core/pkg/logger"
)

type BonusService struct {
	offers       OfferStore
	claims       ClaimStore
	ledger       LedgerStore
	accounts     AccountStore
	achievements *AchievementService
	notifier     Notifier
	tiers        tier.Table
	now          func() time.Time
}

func NewBonusService(offers OfferStore, claims ClaimStore, ledger LedgerStore, accounts AccountStore,
	achievements *AchievementService, notifier Notifier, tiers tier.Table) *BonusService {
	return &BonusService{
		offers:       offers,
		claims:       claims,
		ledger:       ledger,
		accounts:     accounts,
		achievements: achievements,
		notifier:     notifier,
		tiers:        tiers,
		now:          time.Now,
	}
}

type ClaimResult struct {
	Offer      models.Offer
	Amount     float64
	Multiplier float64
	NewBalance float64
}

// Claim grants a bonus offer: atomic cooldown-and-streak claim, fixed
// amount scaled by the live VIP multiplier, ledger apply, achievement
// evaluation, notification.
func (s *BonusService) Claim(accountID, offerID uint) (*ClaimResult, error) {
	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		return nil, err
	}
	if offer.Kind != models.OfferKindBonus || !offer.IsActive {
		return nil, errors.New(errors.ErrCodeNotFound, "bonus not found")
	}

	decision, err := s.claims.TryClaim(accountID, offer, s.now(), func(account *models.Account) repositories.ClaimOutcome {
		multiplier := s.tiers.MultiplierFor(account.VipTier)
		return repositories.ClaimOutcome{
			Amount:       reward.Round2(offer.CreditAmount * multiplier),
			Multiplier:   multiplier,
			SegmentIndex: -1,
		}
	})
	if err != nil {
		return nil, err
	}
	if err := decisionError(decision); err != nil {
		return nil, err
	}

	outcome := decision.Outcome
	account, err := s.ledger.Apply(accountID, outcome.Amount, models.EntryBonusClaim,
		fmt.Sprintf("Claimed %s", offer.Name))
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(accountID, "Bonus Claimed!",
		fmt.Sprintf("You received %.2f credits from %s", outcome.Amount, offer.Name),
		models.NotifyBonus)

	if _, err := s.achievements.Evaluate(accountID); err != nil {
		logger.Warn("Achievement evaluation failed after bonus claim",
			"account_id", accountID, "offer_id", offerID, "error", err)
	}

	return &ClaimResult{
		Offer:      *offer,
		Amount:     outcome.Amount,
		Multiplier: outcome.Multiplier,
		NewBalance: account.CreditBalance,
	}, nil
}

// Statuses reports cooldown and streak availability for every active
// bonus. Read-only.
func (s *BonusService) Statuses(accountID uint) ([]OfferStatus, error) {
	offers, err := s.offers.ListActive(models.OfferKindBonus)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	return offerStatuses(s.claims, accountID, s.now(), offers, func(offer *models.Offer) bool {
		return offer.StreakRequired == 0 || account.LoginStreak >= offer.StreakRequired
	})
}
