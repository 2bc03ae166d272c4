package repositories

import (
	"time"

	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListDefs() ([]models.AchievementDef, error) {
	var defs []models.AchievementDef
	result := r.db.Order("threshold ASC").Find(&defs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to list achievements")
	}
	return defs, nil
}

func (r *AchievementRepository) ListUnlocks(accountID uint) ([]models.AchievementUnlock, error) {
	var unlocks []models.AchievementUnlock
	result := r.db.Where("account_id = ?", accountID).Find(&unlocks)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to list unlocks")
	}
	return unlocks, nil
}

// TryUnlock attempts the one-time unlock. The unique (account, achievement)
// index plus ON CONFLICT DO NOTHING makes this the compare-and-swap: the
// first caller inserts the row, every later or racing caller affects zero
// rows and gets false.
func (r *AchievementRepository) TryUnlock(accountID, achievementID uint, now time.Time) (bool, error) {
	unlock := &models.AchievementUnlock{
		AccountID:     accountID,
		AchievementID: achievementID,
		UnlockedAt:    now,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(unlock)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to unlock achievement")
	}
	return result.RowsAffected > 0, nil
}

func (r *AchievementRepository) UpsertDef(def *models.AchievementDef) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "type", "threshold", "reward_credits"}),
	}).Create(def)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to upsert achievement")
	}
	return nil
}
