package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Email and username are unique; implementations enforce it on Create and Update.
type UserRepository interface {
	// Create assigns ID and CreatedAt and stores the user.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete reports whether a record was removed. Unknown ids are not an error.
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user in insertion order.
	List(ctx context.Context) ([]domain.User, error)
	Stats(ctx context.Context) (domain.UserStats, error)
}
