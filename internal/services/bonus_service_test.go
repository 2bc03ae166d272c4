package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/tier"
	"github.com/loyaltyhub/core/pkg/errors"
)

func dailyBonus() models.Offer {
	return models.Offer{
		Code:          "daily-login",
		Name:          "Daily Login Bonus",
		Kind:          models.OfferKindBonus,
		CreditAmount:  25,
		CooldownHours: 24,
	}
}

func TestClaim_GrantsFixedAmountWithSingleEntry(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice"})
	offer := m.addOffer(dailyBonus())

	result, err := bonuses.Claim(account.ID, offer.ID)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if result.Amount != 25 {
		t.Errorf("Amount = %g, want 25 at Bronze", result.Amount)
	}
	if result.NewBalance != 25 {
		t.Errorf("NewBalance = %g, want 25", result.NewBalance)
	}

	entries := m.entriesFor(account.ID, models.EntryBonusClaim)
	if len(entries) != 1 {
		t.Fatalf("got %d BONUS_CLAIM entries, want 1", len(entries))
	}
	if entries[0].PointDelta != 12 {
		t.Errorf("PointDelta = %d, want floor(25/2) = 12", entries[0].PointDelta)
	}
	if err := m.checkBalanced(account.ID); err != nil {
		t.Errorf("ledger invariant broken: %v", err)
	}
}

func TestClaim_StreakRequirementUnmet(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice", LoginStreak: 3})
	offer := m.addOffer(models.Offer{
		Code:           "streak-bonus",
		Name:           "Streak Master",
		Kind:           models.OfferKindBonus,
		CreditAmount:   75,
		CooldownHours:  168,
		StreakRequired: 7,
	})

	_, err := bonuses.Claim(account.ID, offer.ID)
	if !errors.IsCode(err, errors.ErrCodeNotEligible) {
		t.Fatalf("Claim() error = %v, want NOT_ELIGIBLE", err)
	}
	if !strings.Contains(err.Error(), "7") {
		t.Errorf("error %q should name the unmet streak requirement", err.Error())
	}
	if got := len(m.entriesFor(account.ID, "")); got != 0 {
		t.Errorf("got %d ledger entries, want none", got)
	}
}

func TestClaim_CooldownWindow(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice"})
	offer := m.addOffer(dailyBonus())

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	bonuses.now = func() time.Time { return now }

	if _, err := bonuses.Claim(account.ID, offer.ID); err != nil {
		t.Fatalf("claim at T0 error = %v", err)
	}

	now = t0.Add(23 * time.Hour)
	_, err := bonuses.Claim(account.ID, offer.ID)
	if !errors.IsCode(err, errors.ErrCodeCooldownActive) {
		t.Fatalf("claim at T0+23h error = %v, want COOLDOWN_ACTIVE", err)
	}

	statuses, err := bonuses.Statuses(account.ID)
	if err != nil {
		t.Fatalf("Statuses() error = %v", err)
	}
	if want := t0.Add(24 * time.Hour); !statuses[0].NextAvailable.Equal(want) {
		t.Errorf("NextAvailable = %v, want %v", statuses[0].NextAvailable, want)
	}

	now = t0.Add(24*time.Hour + time.Minute)
	if _, err := bonuses.Claim(account.ID, offer.ID); err != nil {
		t.Fatalf("claim at T0+24h01m error = %v, want success", err)
	}

	if got := len(m.claimsFor(account.ID, offer.ID)); got != 2 {
		t.Errorf("got %d claim records, want 2", got)
	}
}

func TestClaim_SilverMultiplier(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice", PointBalance: 600, VipTier: tier.Silver})
	offer := m.addOffer(dailyBonus())

	result, err := bonuses.Claim(account.ID, offer.ID)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if result.Amount != 31.25 {
		t.Errorf("Amount = %g, want 25 * 1.25 = 31.25", result.Amount)
	}
	if result.Multiplier != 1.25 {
		t.Errorf("Multiplier = %g, want 1.25", result.Multiplier)
	}
}

func TestClaim_ConcurrentRacersYieldOneWinner(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice"})
	offer := m.addOffer(dailyBonus())

	const racers = 20
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = bonuses.Claim(account.ID, offer.ID)
		}(i)
	}
	wg.Wait()

	var wins, cooldowns int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.IsCode(err, errors.ErrCodeCooldownActive):
			cooldowns++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("got %d winners, want exactly 1", wins)
	}
	if cooldowns != racers-1 {
		t.Errorf("got %d cooldown losers, want %d", cooldowns, racers-1)
	}

	if got := len(m.claimsFor(account.ID, offer.ID)); got != 1 {
		t.Errorf("got %d claim records, want 1", got)
	}
	if got := len(m.entriesFor(account.ID, models.EntryBonusClaim)); got != 1 {
		t.Errorf("got %d BONUS_CLAIM entries, want 1", got)
	}
	if err := m.checkBalanced(account.ID); err != nil {
		t.Errorf("ledger invariant broken: %v", err)
	}
}

func TestStatuses_StreakGateShowsUnavailable(t *testing.T) {
	m := newMemStores()
	_, bonuses, _, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice", LoginStreak: 2})
	m.addOffer(models.Offer{
		Code:           "streak-bonus",
		Name:           "Streak Master",
		Kind:           models.OfferKindBonus,
		CreditAmount:   75,
		CooldownHours:  168,
		StreakRequired: 7,
	})

	statuses, err := bonuses.Statuses(account.ID)
	if err != nil {
		t.Fatalf("Statuses() error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	if statuses[0].IsAvailable {
		t.Error("bonus should be unavailable below the required streak")
	}
}

func TestClaim_DeactivatedAccount(t *testing.T) {
	m := newMemStores()
	_, bonuses, accounts, _ := newServices(m)

	account := m.addAccount(models.Account{Username: "alice"})
	offer := m.addOffer(dailyBonus())

	if err := accounts.Deactivate(account.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	_, err := bonuses.Claim(account.ID, offer.ID)
	if !errors.IsCode(err, errors.ErrCodeNotEligible) {
		t.Fatalf("Claim() error = %v, want NOT_ELIGIBLE for deactivated account", err)
	}
}
