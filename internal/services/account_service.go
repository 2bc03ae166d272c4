package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/security"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
	"github.com/loyaltyhub/core/pkg/logger"
)

// AccountConfig carries the registration-time program parameters.
type AccountConfig struct {
	WelcomeBonus  float64
	ReferrerBonus float64
	JWTSecret     string
}

type AccountService struct {
	accounts     AccountStore
	ledger       LedgerStore
	achievements *AchievementService
	notifier     Notifier
	tiers        tier.Table
	cfg          AccountConfig
	now          func() time.Time
}

func NewAccountService(accounts AccountStore, ledger LedgerStore,
	achievements *AchievementService, notifier Notifier, tiers tier.Table, cfg AccountConfig) *AccountService {
	return &AccountService{
		accounts:     accounts,
		ledger:       ledger,
		achievements: achievements,
		notifier:     notifier,
		tiers:        tiers,
		cfg:          cfg,
		now:          time.Now,
	}
}

type RegisterResult struct {
	Account *models.Account
	Token   string
}

// Register creates a new account. A valid referral code pays the referrer
// first, then the welcome bonus becomes the new account's first ledger
// entry. Referral issuance is best-effort: an unknown code is logged and
// skipped, never failing the registration.
func (s *AccountService) Register(username, password, referralCode string) (*RegisterResult, error) {
	username = security.SanitizeString(username)
	if !security.ValidateUsername(username) {
		return nil, errors.New(errors.ErrCodeValidation, "username must be 3-50 characters of letters, digits, '_', '.' or '-'")
	}
	if len(password) < 8 {
		return nil, errors.New(errors.ErrCodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashCredential(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash credential")
	}

	var referrerID uint
	if referralCode != "" {
		referrer, err := s.accounts.GetByReferralCode(strings.ToUpper(strings.TrimSpace(referralCode)))
		if err != nil {
			logger.Warn("Referral code did not resolve, skipping referral bonus",
				"code", referralCode, "error", err)
		} else {
			referrerID = referrer.ID
			_, err := s.ledger.Apply(referrer.ID, s.cfg.ReferrerBonus, models.EntryReferralBonus,
				fmt.Sprintf("Referral bonus for inviting %s", username))
			if err != nil {
				logger.Warn("Failed to pay referrer bonus", "referrer_id", referrer.ID, "error", err)
			} else {
				s.notifier.Notify(referrer.ID, "Referral Bonus!",
					fmt.Sprintf("%s joined with your code, you earned %.2f credits", username, s.cfg.ReferrerBonus),
					models.NotifyReferral)
			}
		}
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		ReferredBy:   referrerID,
		VipTier:      tier.Bronze,
		IsActive:     true,
	}
	if err := s.accounts.CreateAccount(account); err != nil {
		return nil, err
	}

	if s.cfg.WelcomeBonus > 0 {
		updated, err := s.ledger.Apply(account.ID, s.cfg.WelcomeBonus, models.EntryBonusClaim,
			"Welcome bonus credits")
		if err != nil {
			return nil, err
		}
		account = updated
	}

	s.notifier.Notify(account.ID, "Welcome!",
		fmt.Sprintf("You received %.2f bonus credits as a welcome gift!", s.cfg.WelcomeBonus),
		models.NotifyBonus)

	token, err := security.GenerateToken(account.ID, username, s.cfg.JWTSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue session token")
	}

	return &RegisterResult{Account: account, Token: token}, nil
}

type LoginResult struct {
	Account *models.Account
	Token   string
}

// RecordLogin updates the login streak for an already-authenticated account
// and re-evaluates streak achievements. Identity verification happens
// upstream.
func (s *AccountService) RecordLogin(accountID uint) (*LoginResult, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, errors.New(errors.ErrCodeNotEligible, "account is deactivated")
	}

	now := s.now()
	streak := NextStreak(account.LastLogin, account.LoginStreak, now)
	if err := s.accounts.UpdateLoginStreak(accountID, streak, now); err != nil {
		return nil, err
	}
	account.LoginStreak = streak
	account.LastLogin = now

	if _, err := s.achievements.Evaluate(accountID); err != nil {
		logger.Warn("Achievement evaluation failed after login", "account_id", accountID, "error", err)
	}

	token, err := security.GenerateToken(account.ID, account.Username, s.cfg.JWTSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue session token")
	}

	return &LoginResult{Account: account, Token: token}, nil
}

// NextStreak is the streak window rule: a login within the same day keeps
// the streak, one on the next day extends it, a gap of two days or more
// resets it.
func NextStreak(lastLogin time.Time, current int, now time.Time) int {
	if lastLogin.IsZero() {
		return 1
	}
	since := now.Sub(lastLogin)
	switch {
	case since >= 48*time.Hour:
		return 1
	case since >= 24*time.Hour:
		return current + 1
	default:
		if current < 1 {
			return 1
		}
		return current
	}
}

// AccountSummary is the profile view: balances, current multiplier and the
// distance to the next tier.
type AccountSummary struct {
	Account      *models.Account
	Multiplier   float64
	NextTier     string
	PointsToNext int64
}

func (s *AccountService) Summary(accountID uint) (*AccountSummary, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		Account:    account,
		Multiplier: s.tiers.MultiplierFor(account.VipTier),
	}
	if next, ok := s.tiers.Next(account.PointBalance); ok {
		summary.NextTier = next.Name
		summary.PointsToNext = next.MinPoints - account.PointBalance
	}
	return summary, nil
}

// ReferralSummary lists the accounts referred plus total referral earnings.
type ReferralSummary struct {
	Referred    []models.Account
	TotalEarned float64
}

func (s *AccountService) Referrals(accountID uint) (*ReferralSummary, error) {
	referred, err := s.accounts.ListReferred(accountID)
	if err != nil {
		return nil, err
	}
	total, err := s.ledger.TotalByCategory(accountID, models.EntryReferralBonus)
	if err != nil {
		return nil, err
	}
	return &ReferralSummary{Referred: referred, TotalEarned: total}, nil
}

// History returns the account's ledger entries, newest first.
func (s *AccountService) History(accountID uint, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ledger.History(accountID, limit, offset)
}

// AdminCredit grants credits outside the normal reward flow, fully
// accounted like any other entry.
func (s *AccountService) AdminCredit(accountID uint, amount float64, description string) (*models.Account, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "credit amount must be positive")
	}
	description = security.SanitizeString(description)

	account, err := s.ledger.Apply(accountID, amount, models.EntryAdminCredit, description)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(accountID, "Credits Added",
		fmt.Sprintf("%.2f credits were added to your account", amount),
		models.NotifySystem)

	return account, nil
}

// Deactivate disables an account; its history stays intact.
func (s *AccountService) Deactivate(accountID uint) error {
	return s.accounts.Deactivate(accountID)
}
