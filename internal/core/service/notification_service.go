package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// NotificationService serves the notification panel.
type NotificationService struct {
	repo   ports.NotificationRepository
	logger zerolog.Logger
}

var _ ports.NotificationService = (*NotificationService)(nil)

func NewNotificationService(repo ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.UnreadCount(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("notification_id", id).Msg("mark read: unknown notification")
	}
	return ok, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int, error) {
	n, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	s.logger.Info().Int("changed", n).Msg("notifications marked read")
	return n, nil
}
