package services

import (
	"time"

	"github.com/loyaltyhub/core/internal/models"
)

// OfferStatus is a side-effect-free availability view of one offer.
type OfferStatus struct {
	Offer         models.Offer
	IsAvailable   bool
	NextAvailable time.Time
	LastClaimed   time.Time
}

func offerStatuses(claims ClaimStore, accountID uint, now time.Time, offers []models.Offer, extra func(*models.Offer) bool) ([]OfferStatus, error) {
	statuses := make([]OfferStatus, 0, len(offers))
	for i := range offers {
		offer := offers[i]
		status := OfferStatus{Offer: offer, IsAvailable: true}

		last, err := claims.LastClaim(accountID, offer.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			status.LastClaimed = last.ClaimedAt
			next := last.ClaimedAt.Add(offer.Cooldown())
			if now.Before(next) {
				status.IsAvailable = false
				status.NextAvailable = next
			}
		}
		if extra != nil && !extra(&offer) {
			status.IsAvailable = false
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}
