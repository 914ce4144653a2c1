package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// RegisterInput carries the self-service sign-up form.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
	Address  string
	Mobile   string
}

// RegisterResult is returned by a successful registration. The account
// starts unverified, so NeedsVerification is always true today.
type RegisterResult struct {
	User              domain.User
	NeedsVerification bool
}

// AuthService covers credential checks, sign-up and e-mail verification.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	SendVerificationEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, userID, token string) (bool, error)
	IssueToken(user domain.User, sessionID string) (string, error)
}

// UserSession is the current-user slot of one client. It is anonymous until
// Login or Restore succeeds.
type UserSession interface {
	Restore(ctx context.Context) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	// Replace overwrites the persisted user, e.g. after a profile edit.
	Replace(ctx context.Context, user domain.User) error
	User() *domain.User
	HasRole(role domain.Role) bool
	CanAccess(view domain.View) bool
}

// SessionManager opens the session slot identified by sessionID.
type SessionManager interface {
	Open(sessionID string) UserSession
}
