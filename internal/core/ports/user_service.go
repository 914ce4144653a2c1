package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// CreateUserInput is the admin form for adding an account directly.
type CreateUserInput struct {
	Email            string
	Username         string
	FullName         string
	Address          string
	Mobile           string
	Role             domain.Role
	SubscriptionPlan domain.SubscriptionPlan
	IsEmailVerified  bool
	Avatar           string
	Password         string // optional; accounts without one can only sign in through the sentinel verifier
}

// ProfilePatch holds the fields a user may change on their own account.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Username *string
	FullName *string
	Address  *string
	Mobile   *string
	Avatar   *string
}

// UserService defines account administration and self-service profile edits.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	UpdateProfile(ctx context.Context, actorID string, patch ProfilePatch) (*domain.User, error)
	// Delete removes the account and then every invoice it owns.
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, search string) ([]domain.User, error)
	Stats(ctx context.Context) (domain.UserStats, error)
}
