package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/loyaltyhub/core/internal/reward"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
)

// memStores is an in-memory implementation of every store interface. A
// single mutex spans each operation, mirroring the per-account atomicity
// the Postgres repositories get from row locks and unique indexes.
type memStores struct {
	mu       sync.Mutex
	accounts map[uint]*models.Account
	entries  []models.LedgerEntry
	offers   map[uint]*models.Offer
	claims   []models.ClaimRecord
	defs     []models.AchievementDef
	unlocks  map[[2]uint]models.AchievementUnlock
	notes    []memNote

	tiers  tier.Table
	policy repositories.PointsPolicy
	nextID uint
}

type memNote struct {
	AccountID uint
	Title     string
	Category  string
}

func newMemStores() *memStores {
	return &memStores{
		accounts: make(map[uint]*models.Account),
		offers:   make(map[uint]*models.Offer),
		unlocks:  make(map[[2]uint]models.AchievementUnlock),
		tiers:    tier.DefaultTable(),
		policy:   repositories.PointsPolicy{CreditsPerPoint: 2},
	}
}

func (m *memStores) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStores) addAccount(account models.Account) *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.id()
	if account.VipTier == "" {
		account.VipTier = m.tiers.TierFor(account.PointBalance).Name
	}
	if account.ReferralCode == "" {
		account.ReferralCode = fmt.Sprintf("CODE%04d", account.ID)
	}
	account.IsActive = true
	m.accounts[account.ID] = &account
	clone := account
	return &clone
}

func (m *memStores) addOffer(offer models.Offer) *models.Offer {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer.ID = m.id()
	offer.IsActive = true
	m.offers[offer.ID] = &offer
	clone := offer
	return &clone
}

func (m *memStores) addDef(def models.AchievementDef) *models.AchievementDef {
	m.mu.Lock()
	defer m.mu.Unlock()
	def.ID = m.id()
	m.defs = append(m.defs, def)
	clone := def
	return &clone
}

// AccountStore

func (m *memStores) CreateAccount(account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Username == account.Username {
			return errors.New(errors.ErrCodeAlreadyExists, "username already exists")
		}
	}
	account.ID = m.id()
	if account.ReferralCode == "" {
		account.ReferralCode = fmt.Sprintf("CODE%04d", account.ID)
	}
	clone := *account
	m.accounts[account.ID] = &clone
	return nil
}

func (m *memStores) GetByID(id uint) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}
	clone := *account
	return &clone, nil
}

func (m *memStores) GetByReferralCode(code string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.ReferralCode == code {
			clone := *account
			return &clone, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "referral code not found")
}

func (m *memStores) UpdateLoginStreak(accountID uint, streak int, lastLogin time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "account not found")
	}
	account.LoginStreak = streak
	account.LastLogin = lastLogin
	return nil
}

func (m *memStores) Deactivate(accountID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "account not found")
	}
	account.IsActive = false
	return nil
}

func (m *memStores) ListReferred(accountID uint) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var referred []models.Account
	for _, account := range m.accounts {
		if account.ReferredBy == accountID {
			referred = append(referred, *account)
		}
	}
	return referred, nil
}

// LedgerStore

func (m *memStores) Apply(accountID uint, creditDelta float64, category, description string) (*models.Account, error) {
	if creditDelta < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "credit delta must not be negative")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[accountID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}

	creditDelta = reward.Round2(creditDelta)
	pointDelta := m.policy.PointsFor(creditDelta)
	account.CreditBalance = reward.Round2(account.CreditBalance + creditDelta)
	account.PointBalance += pointDelta
	account.VipTier = m.tiers.TierFor(account.PointBalance).Name

	m.entries = append(m.entries, models.LedgerEntry{
		ID:          m.id(),
		AccountID:   accountID,
		CreditDelta: creditDelta,
		PointDelta:  pointDelta,
		Category:    category,
		Description: description,
		CreatedAt:   time.Now(),
	})

	clone := *account
	return &clone, nil
}

func (m *memStores) History(accountID uint, limit, offset int) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []models.LedgerEntry
	for _, entry := range m.entries {
		if entry.AccountID == accountID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *memStores) TotalByCategory(accountID uint, category string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, entry := range m.entries {
		if entry.AccountID == accountID && entry.Category == category {
			total += entry.CreditDelta
		}
	}
	return reward.Round2(total), nil
}

// ClaimStore

func (m *memStores) TryClaim(accountID uint, offer *models.Offer, now time.Time, draw func(*models.Account) repositories.ClaimOutcome) (*repositories.ClaimDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[accountID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "account not found")
	}

	decision := &repositories.ClaimDecision{}
	if !account.IsActive {
		decision.State = repositories.ClaimNotEligible
		decision.Reason = "account is deactivated"
		return decision, nil
	}

	var last *models.ClaimRecord
	for i := range m.claims {
		record := &m.claims[i]
		if record.AccountID == accountID && record.OfferID == offer.ID {
			if last == nil || record.ClaimedAt.After(last.ClaimedAt) {
				last = record
			}
		}
	}
	if last != nil {
		next := last.ClaimedAt.Add(offer.Cooldown())
		if now.Before(next) {
			decision.State = repositories.ClaimOnCooldown
			decision.NextAvailable = next
			return decision, nil
		}
	}

	if !m.tiers.Meets(account.VipTier, offer.MinTier) {
		decision.State = repositories.ClaimNotEligible
		decision.Reason = fmt.Sprintf("requires %s tier", offer.MinTier)
		return decision, nil
	}
	if offer.StreakRequired > 0 && account.LoginStreak < offer.StreakRequired {
		decision.State = repositories.ClaimNotEligible
		decision.Reason = fmt.Sprintf("requires %d day streak", offer.StreakRequired)
		return decision, nil
	}

	snapshot := *account
	outcome := draw(&snapshot)

	m.claims = append(m.claims, models.ClaimRecord{
		ID:        m.id(),
		AccountID: accountID,
		OfferID:   offer.ID,
		Amount:    outcome.Amount,
		ClaimedAt: now,
	})
	if offer.Kind == models.OfferKindGame {
		account.GamesPlayed++
	}

	clone := *account
	decision.State = repositories.ClaimEligible
	decision.Outcome = outcome
	decision.Account = &clone
	return decision, nil
}

func (m *memStores) LastClaim(accountID, offerID uint) (*models.ClaimRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *models.ClaimRecord
	for i := range m.claims {
		record := &m.claims[i]
		if record.AccountID == accountID && record.OfferID == offerID {
			if last == nil || record.ClaimedAt.After(last.ClaimedAt) {
				last = record
			}
		}
	}
	if last == nil {
		return nil, nil
	}
	clone := *last
	return &clone, nil
}

// OfferStore lives on a wrapper type: the account store already claims
// GetByID on memStores itself.

type memOffers struct {
	m *memStores
}

func (o memOffers) GetByID(id uint) (*models.Offer, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	offer, ok := o.m.offers[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "offer not found")
	}
	clone := *offer
	return &clone, nil
}

func (o memOffers) ListActive(kind string) ([]models.Offer, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	var offers []models.Offer
	for _, offer := range o.m.offers {
		if offer.Kind == kind && offer.IsActive {
			offers = append(offers, *offer)
		}
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

// AchievementStore

func (m *memStores) ListDefs() ([]models.AchievementDef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AchievementDef(nil), m.defs...), nil
}

func (m *memStores) ListUnlocks(accountID uint) ([]models.AchievementUnlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unlocks []models.AchievementUnlock
	for key, unlock := range m.unlocks {
		if key[0] == accountID {
			unlocks = append(unlocks, unlock)
		}
	}
	return unlocks, nil
}

func (m *memStores) TryUnlock(accountID, achievementID uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{accountID, achievementID}
	if _, exists := m.unlocks[key]; exists {
		return false, nil
	}
	m.unlocks[key] = models.AchievementUnlock{
		ID:            m.id(),
		AccountID:     accountID,
		AchievementID: achievementID,
		UnlockedAt:    now,
	}
	return true, nil
}

// Notifier

func (m *memStores) Notify(accountID uint, title, message, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, memNote{AccountID: accountID, Title: title, Category: category})
}

// helpers

func (m *memStores) entriesFor(accountID uint, category string) []models.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []models.LedgerEntry
	for _, entry := range m.entries {
		if entry.AccountID == accountID && (category == "" || entry.Category == category) {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (m *memStores) claimsFor(accountID, offerID uint) []models.ClaimRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []models.ClaimRecord
	for _, record := range m.claims {
		if record.AccountID == accountID && record.OfferID == offerID {
			records = append(records, record)
		}
	}
	return records
}

// checkBalanced verifies the ledger invariant: balances equal the sums of
// the account's entries.
func (m *memStores) checkBalanced(accountID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %d not found", accountID)
	}
	var credits float64
	var points int64
	for _, entry := range m.entries {
		if entry.AccountID == accountID {
			credits += entry.CreditDelta
			points += entry.PointDelta
		}
	}
	credits = reward.Round2(credits)
	if math.Abs(credits-account.CreditBalance) > 1e-9 {
		return fmt.Errorf("credit balance %g != entry sum %g", account.CreditBalance, credits)
	}
	if points != account.PointBalance {
		return fmt.Errorf("point balance %d != entry sum %d", account.PointBalance, points)
	}
	if got := m.tiers.TierFor(account.PointBalance).Name; got != account.VipTier {
		return fmt.Errorf("cached tier %q != computed tier %q", account.VipTier, got)
	}
	return nil
}

func newServices(m *memStores) (*GameService, *BonusService, *AccountService, *AchievementService) {
	offers := memOffers{m}
	achievements := NewAchievementService(m, m, m, m)
	games := NewGameService(offers, m, m, achievements, m, reward.NewGenerator(rand.NewSource(1)), m.tiers)
	bonuses := NewBonusService(offers, m, m, m, achievements, m, m.tiers)
	accounts := NewAccountService(m, m, achievements, m, m.tiers, AccountConfig{
		WelcomeBonus:  25,
		ReferrerBonus: 50,
		JWTSecret:     "this_is_a_test_secret_key_with_32_chars_minimum",
	})
	return games, bonuses, accounts, achievements
}
