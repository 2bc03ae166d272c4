package services

import (
	"fmt"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/pkg/logger"
)

type AchievementService struct {
	achievements AchievementStore
	accounts     AccountStore
	ledger       LedgerStore
	notifier     Notifier
	now          func() time.Time
}

func NewAchievementService(achievements AchievementStore, accounts AccountStore, ledger LedgerStore, notifier Notifier) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		accounts:     accounts,
		ledger:       ledger,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Evaluate checks every locked achievement against the account's live
// counters and unlocks the ones whose threshold is crossed. The unlock is a
// conditional first-insert, so a repeated or racing Evaluate rewards at
// most once per achievement; a lost race is skipped silently.
func (s *AchievementService) Evaluate(accountID uint) ([]models.AchievementDef, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	defs, err := s.achievements.ListDefs()
	if err != nil {
		return nil, err
	}
	unlocks, err := s.achievements.ListUnlocks(accountID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.AchievementID] = true
	}

	var newly []models.AchievementDef
	for _, def := range defs {
		if unlocked[def.ID] {
			continue
		}
		if progressFor(account, def.Type) < def.Threshold {
			continue
		}

		won, err := s.achievements.TryUnlock(accountID, def.ID, s.now())
		if err != nil {
			return newly, err
		}
		if !won {
			continue
		}

		if def.RewardCredits > 0 {
			_, err := s.ledger.Apply(accountID, def.RewardCredits, models.EntryAchievement,
				fmt.Sprintf("Unlocked achievement: %s", def.Name))
			if err != nil {
				logger.Error("Failed to apply achievement reward",
					"account_id", accountID, "achievement", def.Code, "error", err)
				continue
			}
		}

		s.notifier.Notify(accountID, "Achievement Unlocked!",
			fmt.Sprintf("You unlocked %q and earned %g credits!", def.Name, def.RewardCredits),
			models.NotifyAchievement)

		newly = append(newly, def)
	}

	return newly, nil
}

// AchievementProgress pairs a definition with the account's live counter.
type AchievementProgress struct {
	Def        models.AchievementDef
	Progress   int64
	IsUnlocked bool
	UnlockedAt time.Time
}

// Progress reports every achievement with the account's current progress.
// Read-only.
func (s *AchievementService) Progress(accountID uint) ([]AchievementProgress, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	defs, err := s.achievements.ListDefs()
	if err != nil {
		return nil, err
	}
	unlocks, err := s.achievements.ListUnlocks(accountID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[uint]time.Time, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.AchievementID] = u.UnlockedAt
	}

	progress := make([]AchievementProgress, 0, len(defs))
	for _, def := range defs {
		at, ok := unlockedAt[def.ID]
		progress = append(progress, AchievementProgress{
			Def:        def,
			Progress:   progressFor(account, def.Type),
			IsUnlocked: ok,
			UnlockedAt: at,
		})
	}
	return progress, nil
}

func progressFor(account *models.Account, achievementType string) int64 {
	switch achievementType {
	case models.AchievementGamesPlayed:
		return account.GamesPlayed
	case models.AchievementStreak:
		return int64(account.LoginStreak)
	case models.AchievementPoints:
		return account.PointBalance
	default:
		return 0
	}
}
