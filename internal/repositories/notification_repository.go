package repositories

import (
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	if err := r.db.Create(n).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeTransient, "failed to create notification")
	}
	return nil
}

func (r *NotificationRepository) ListByAccount(accountID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := r.db.Where("account_id = ?", accountID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	result := query.Order("created_at DESC").Limit(limit).Find(&notifications)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to list notifications")
	}
	return notifications, nil
}

func (r *NotificationRepository) UnreadCount(accountID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to count notifications")
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(id, accountID uint) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Update("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to mark notification read")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "notification not found")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(accountID uint) error {
	result := r.db.Model(&models.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Update("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeTransient, "failed to mark notifications read")
	}
	return nil
}
