package database

import (
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/logger"
	"gorm.io/gorm"
)

// SeedCatalog writes the reference offer and achievement catalog. Idempotent:
// entries are keyed by code and upserted, so redeploys never duplicate them.
func SeedCatalog(db *gorm.DB) error {
	logger.Info("Seeding reward catalog...")

	offers := repositories.NewOfferRepository(db)
	for i := range referenceOffers {
		if err := offers.Upsert(&referenceOffers[i]); err != nil {
			return err
		}
	}

	achievements := repositories.NewAchievementRepository(db)
	for i := range referenceAchievements {
		if err := achievements.UpsertDef(&referenceAchievements[i]); err != nil {
			return err
		}
	}

	logger.Info("Reward catalog seeded",
		"offers", len(referenceOffers),
		"achievements", len(referenceAchievements))
	return nil
}

var referenceOffers = []models.Offer{
	{
		Code:        "wheel-game",
		Name:        "Lucky Wheel",
		Description: "Spin the wheel to win credits!",
		Kind:        models.OfferKindGame,
		GameType:    models.GameTypeWheel,
		Segments: `[{"value":0,"label":"Try again","weight":4},` +
			`{"value":10,"weight":6},{"value":25,"weight":5},{"value":50,"weight":3},` +
			`{"value":75,"weight":2},{"value":100,"label":"Jackpot","weight":1}]`,
		CooldownHours: 24,
		IsActive:      true,
	},
	{
		Code:          "cookie-game",
		Name:          "Fortune Cookie",
		Description:   "Crack the cookie to reveal your fortune!",
		Kind:          models.OfferKindGame,
		GameType:      models.GameTypeCookie,
		MinReward:     10,
		MaxReward:     75,
		CooldownHours: 24,
		IsActive:      true,
	},
	{
		Code:          "scratch-game",
		Name:          "Scratch Card",
		Description:   "Scratch to reveal hidden prizes!",
		Kind:          models.OfferKindGame,
		GameType:      models.GameTypeScratch,
		MinReward:     5,
		MaxReward:     150,
		MinTier:       tier.Silver,
		CooldownHours: 24,
		IsActive:      true,
	},
	{
		Code:          "daily-login",
		Name:          "Daily Login Bonus",
		Description:   "Claim your daily bonus credits!",
		Kind:          models.OfferKindBonus,
		CreditAmount:  25,
		CooldownHours: 24,
		IsActive:      true,
	},
	{
		Code:          "weekly-mega",
		Name:          "Weekly Mega Bonus",
		Description:   "Big weekly reward for loyal players!",
		Kind:          models.OfferKindBonus,
		CreditAmount:  100,
		CooldownHours: 168,
		IsActive:      true,
	},
	{
		Code:           "streak-bonus",
		Name:           "Streak Master",
		Description:    "Bonus for a 7-day login streak",
		Kind:           models.OfferKindBonus,
		CreditAmount:   75,
		CooldownHours:  168,
		StreakRequired: 7,
		IsActive:       true,
	},
}

var referenceAchievements = []models.AchievementDef{
	{Code: "first-game", Name: "First Spin", Description: "Play your first bonus game", Type: models.AchievementGamesPlayed, Threshold: 1, RewardCredits: 10},
	{Code: "game-enthusiast", Name: "Game Enthusiast", Description: "Play 10 bonus games", Type: models.AchievementGamesPlayed, Threshold: 10, RewardCredits: 50},
	{Code: "game-master", Name: "Game Master", Description: "Play 50 bonus games", Type: models.AchievementGamesPlayed, Threshold: 50, RewardCredits: 200},
	{Code: "streak-starter", Name: "Streak Starter", Description: "Maintain a 3-day login streak", Type: models.AchievementStreak, Threshold: 3, RewardCredits: 25},
	{Code: "streak-champion", Name: "Streak Champion", Description: "Maintain a 7-day login streak", Type: models.AchievementStreak, Threshold: 7, RewardCredits: 75},
	{Code: "silver-member", Name: "Silver Status", Description: "Reach Silver VIP tier", Type: models.AchievementPoints, Threshold: 500, RewardCredits: 100},
	{Code: "gold-member", Name: "Gold Status", Description: "Reach Gold VIP tier", Type: models.AchievementPoints, Threshold: 2000, RewardCredits: 250},
}
