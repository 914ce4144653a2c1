package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// NotificationRepository holds the notification feed. Records are never
// created or removed through it; only their read flag changes.
type NotificationRepository interface {
	// List returns the feed newest first.
	List(ctx context.Context) ([]domain.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	// MarkRead is idempotent and reports false for an unknown id.
	MarkRead(ctx context.Context, id string) (bool, error)
	// MarkAllRead returns how many records changed.
	MarkAllRead(ctx context.Context) (int, error)
}
