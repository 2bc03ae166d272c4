package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/loyaltyhub/core/internal/config"
	"github.com/loyaltyhub/core/internal/database"
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/notify"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/loyaltyhub/core/internal/reward"
	"github.com/loyaltyhub/core/internal/services"
	"github.com/loyaltyhub/core/pkg/logger"
)

// application is the composition root. A transport layer attaches to these
// services; the binary itself owns migrations, catalog seeding and the
// notification fanout.
type application struct {
	games         *services.GameService
	bonuses       *services.BonusService
	accounts      *services.AccountService
	achievements  *services.AchievementService
	notifications *services.NotificationService
	offers        *repositories.OfferRepository
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Loyalty Core...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the reference offer and achievement catalog
	if err := database.SeedCatalog(db); err != nil {
		logger.Warn("Failed to seed catalog", "error", err)
	}

	tiers := cfg.TierTable()
	policy := repositories.PointsPolicy{CreditsPerPoint: cfg.CreditsPerPoint}

	accountRepo := repositories.NewAccountRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db, tiers, policy)
	claimRepo := repositories.NewClaimRepository(db, tiers)
	offerRepo := repositories.NewOfferRepository(db)
	achievementRepo := repositories.NewAchievementRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Account notifications always persist; the Telegram ops sink is optional.
	sinks := []notify.Sink{notify.NewStore(notificationRepo)}
	if cfg.TelegramBotToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("Failed to initialize telegram sink, continuing without it", "error", err)
		} else {
			sinks = append(sinks, telegram)
			logger.Info("Telegram ops sink enabled", "chat_id", cfg.TelegramChatID)
		}
	}
	fanout := notify.NewFanout(sinks...)

	achievements := services.NewAchievementService(achievementRepo, accountRepo, ledgerRepo, fanout)
	gen := reward.NewGenerator(rand.NewSource(time.Now().UnixNano()))

	app := &application{
		games:   services.NewGameService(offerRepo, claimRepo, ledgerRepo, achievements, fanout, gen, tiers),
		bonuses: services.NewBonusService(offerRepo, claimRepo, ledgerRepo, accountRepo, achievements, fanout, tiers),
		accounts: services.NewAccountService(accountRepo, ledgerRepo, achievements, fanout, tiers, services.AccountConfig{
			WelcomeBonus:  cfg.WelcomeBonus,
			ReferrerBonus: cfg.ReferrerBonus,
			JWTSecret:     cfg.JWTSecret,
		}),
		achievements:  achievements,
		notifications: services.NewNotificationService(notificationRepo),
		offers:        offerRepo,
	}
	app.logCatalog()

	logger.Info("Loyalty core started successfully", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Loyalty core stopped")
}

func (a *application) logCatalog() {
	games, err := a.offers.ListActive(models.OfferKindGame)
	if err != nil {
		logger.Warn("Failed to list game offers", "error", err)
		return
	}
	bonuses, err := a.offers.ListActive(models.OfferKindBonus)
	if err != nil {
		logger.Warn("Failed to list bonus offers", "error", err)
		return
	}
	logger.Info("Catalog loaded", "games", len(games), "bonuses", len(bonuses))
}
