package services

import (
	"github.com/loyaltyhub/core/internal/models"
)

// NotificationService is the account-facing inbox over the persisted
// notification store.
type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(accountID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifications.ListByAccount(accountID, unreadOnly, limit)
}

func (s *NotificationService) UnreadCount(accountID uint) (int64, error) {
	return s.notifications.UnreadCount(accountID)
}

func (s *NotificationService) MarkRead(accountID, notificationID uint) error {
	return s.notifications.MarkRead(notificationID, accountID)
}

func (s *NotificationService) MarkAllRead(accountID uint) error {
	return s.notifications.MarkAllRead(accountID)
}
