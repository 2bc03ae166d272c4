package notify

import (
	"github.com/loyaltyhub/core/internal/models"
	"github.com/loyaltyhub/core/internal/repositories"
	"github.com/loyaltyhub/core/pkg/logger"
)

// Sink receives best-effort account notifications. Implementations must
// never block the caller's business flow; failures are logged and dropped.
type Sink interface {
	Notify(accountID uint, title, message, category string)
}

// Store persists notifications so accounts can read them later.
type Store struct {
	repo *repositories.NotificationRepository
}

func NewStore(repo *repositories.NotificationRepository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Notify(accountID uint, title, message, category string) {
	err := s.repo.Create(&models.Notification{
		AccountID: accountID,
		Title:     title,
		Message:   message,
		Category:  category,
	})
	if err != nil {
		logger.Warn("Failed to store notification", "account_id", accountID, "error", err)
	}
}

// Fanout delivers each notification to every sink from a goroutine, so a
// slow or failing sink never blocks or rolls back the balance change that
// produced the event.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Notify(accountID uint, title, message, category string) {
	for _, sink := range f.sinks {
		go sink.Notify(accountID, title, message, category)
	}
}
