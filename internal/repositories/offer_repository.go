package repositories

import (
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/reward"
	"github.com/loyaltyhub/core/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	result := r.db.First(&offer, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "offer not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to get offer")
	}
	return &offer, nil
}

func (r *OfferRepository) ListActive(kind string) ([]models.Offer, error) {
	var offers []models.Offer
	result := r.db.Where("kind = ? AND is_active = ?", kind, true).
		Order("created_at ASC").
		Find(&offers)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to list offers")
	}
	return offers, nil
}

// Upsert validates and writes a catalog offer, keyed by code. Segment
// tables are parsed here so a malformed config never reaches a draw.
func (r *OfferRepository) Upsert(offer *models.Offer) error {
	if offer.Segments != "" {
		if _, err := reward.ParseSegments(offer.Segments); err != nil {
			return errors.Wrap(err, errors.ErrCodeValidation, "invalid segment table")
		}
	}
	if offer.Kind == models.OfferKindGame && offer.MinReward > offer.MaxReward {
		return errors.New(errors.ErrCodeValidation, "min reward exceeds max reward")
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "kind", "game_type", "min_reward", "max_reward",
			"segments", "min_tier", "credit_amount", "streak_required", "cooldown_hours", "is_active",
		}),
	}).Create(offer)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to upsert offer")
	}
	return nil
}

// Deactivate retires an offer from the catalog without deleting it, so old
// claim records keep a valid reference.
func (r *OfferRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.Offer{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to deactivate offer")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "offer not found")
	}
	return nil
}
