package memory

import (
	"context"
	"sync"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

var _ ports.NotificationRepository = (*NotificationStore)(nil)

// NotificationStore holds a fixed feed whose read flags can be flipped.
type NotificationStore struct {
	mu    sync.RWMutex
	items []domain.Notification
}

func NewNotificationStore(initial []domain.Notification) *NotificationStore {
	items := make([]domain.Notification, len(initial))
	copy(items, initial)
	return &NotificationStore{items: items}
}

func (s *NotificationStore) List(_ context.Context) ([]domain.Notification, error) {
	s.mu.RLock()
	out := make([]domain.Notification, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	domain.SortNewestFirst(out)
	return out, nil
}

func (s *NotificationStore) UnreadCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CountUnread(s.items), nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (s *NotificationStore) MarkAllRead(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			changed++
		}
	}
	return changed, nil
}
