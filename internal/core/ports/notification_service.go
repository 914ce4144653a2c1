package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// NotificationService exposes the notification panel.
type NotificationService interface {
	List(ctx context.Context) ([]domain.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context) (int, error)
}
