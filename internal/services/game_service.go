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

type GameService struct {
	offers       OfferStore
	claims       ClaimStore
	ledger       LedgerStore
	achievements *AchievementService
	notifier     Notifier
	gen          *reward.Generator
	tiers        tier.Table
	now          func() time.Time
}

func NewGameService(offers OfferStore, claims ClaimStore, ledger LedgerStore,
	achievements *AchievementService, notifier Notifier, gen *reward.Generator, tiers tier.Table) *GameService {
	return &GameService{
		offers:       offers,
		claims:       claims,
		ledger:       ledger,
		achievements: achievements,
		notifier:     notifier,
		gen:          gen,
		tiers:        tiers,
		now:          time.Now,
	}
}

type PlayResult struct {
	Offer      models.Offer
	Reward     float64
	Multiplier float64
	// SegmentIndex lets the client replay the exact outcome; -1 for
	// range-based games.
	SegmentIndex int
	Label        string
	NewBalance   float64
}

// Play runs one round of a game offer: atomic cooldown-and-eligibility
// claim, reward draw against the locked account snapshot, ledger apply for
// a winning amount, then achievement evaluation. A zero reward (a "try
// again" segment) still consumes the cooldown and counts as a played game
// but writes no ledger entry.
func (s *GameService) Play(accountID, offerID uint) (*PlayResult, error) {
	offer, err := s.offers.GetByID(offerID)
	if err != nil {
		return nil, err
	}
	if offer.Kind != models.OfferKindGame || !offer.IsActive {
		return nil, errors.New(errors.ErrCodeNotFound, "game not found")
	}

	var segments []reward.Segment
	if offer.Segments != "" {
		segments, err = reward.ParseSegments(offer.Segments)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "game has an invalid segment table")
		}
	}

	decision, err := s.claims.TryClaim(accountID, offer, s.now(), func(account *models.Account) repositories.ClaimOutcome {
		multiplier := s.tiers.MultiplierFor(account.VipTier)
		if segments != nil {
			index, amount := s.gen.Draw(segments, multiplier)
			return repositories.ClaimOutcome{
				Amount:       amount,
				Multiplier:   multiplier,
				SegmentIndex: index,
				Label:        segments[index].Label,
			}
		}
		amount := s.gen.Uniform(offer.MinReward, offer.MaxReward, multiplier)
		return repositories.ClaimOutcome{Amount: amount, Multiplier: multiplier, SegmentIndex: -1}
	})
	if err != nil {
		return nil, err
	}
	if err := decisionError(decision); err != nil {
		return nil, err
	}

	outcome := decision.Outcome
	result := &PlayResult{
		Offer:        *offer,
		Reward:       outcome.Amount,
		Multiplier:   outcome.Multiplier,
		SegmentIndex: outcome.SegmentIndex,
		Label:        outcome.Label,
		NewBalance:   decision.Account.CreditBalance,
	}

	if outcome.Amount > 0 {
		account, err := s.ledger.Apply(accountID, outcome.Amount, models.EntryGameWin,
			fmt.Sprintf("Won %.2f credits from %s", outcome.Amount, offer.Name))
		if err != nil {
			return nil, err
		}
		result.NewBalance = account.CreditBalance

		s.notifier.Notify(accountID, "You Won!",
			fmt.Sprintf("You received %.2f credits from %s", outcome.Amount, offer.Name),
			models.NotifyGame)
	}

	if _, err := s.achievements.Evaluate(accountID); err != nil {
		logger.Warn("Achievement evaluation failed after game play",
			"account_id", accountID, "offer_id", offerID, "error", err)
	}

	return result, nil
}

// Statuses reports cooldown availability for every active game.
func (s *GameService) Statuses(accountID uint) ([]OfferStatus, error) {
	offers, err := s.offers.ListActive(models.OfferKindGame)
	if err != nil {
		return nil, err
	}
	return offerStatuses(s.claims, accountID, s.now(), offers, nil)
}

// decisionError maps a non-eligible claim decision to its error. A racing
// claim that lost the atomic gate surfaces as CooldownActive too, since it
// deterministically observes the winner's claim.
func decisionError(decision *repositories.ClaimDecision) error {
	switch decision.State {
	case repositories.ClaimOnCooldown:
		return errors.New(errors.ErrCodeCooldownActive,
			fmt.Sprintf("on cooldown until %s", decision.NextAvailable.UTC().Format(time.RFC3339)))
	case repositories.ClaimNotEligible:
		return errors.New(errors.ErrCodeNotEligible, decision.Reason)
	default:
		return nil
	}
}
