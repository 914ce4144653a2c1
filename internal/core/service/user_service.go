package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// UserService implements account administration and profile edits.
type UserService struct {
	users    ports.UserRepository
	invoices ports.InvoiceRepository
	hashCost int
	logger   zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, invoices ports.InvoiceRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, invoices: invoices, hashCost: bcrypt.DefaultCost, logger: logger}
}

// Create adds an account with the role, plan and verification flag chosen
// by the caller. The plan defaults to the free tier.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	plan := in.SubscriptionPlan
	if plan == "" {
		plan = domain.PlanFree
	}

	fullName := strings.TrimSpace(in.FullName)
	user := &domain.User{
		Email:            strings.TrimSpace(in.Email),
		Name:             domain.DisplayName(fullName),
		Username:         strings.TrimSpace(in.Username),
		FullName:         fullName,
		Address:          strings.TrimSpace(in.Address),
		Mobile:           strings.TrimSpace(in.Mobile),
		Role:             role,
		SubscriptionPlan: plan,
		IsEmailVerified:  in.IsEmailVerified,
		Avatar:           in.Avatar,
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("create user: hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	out := created.Sanitized()
	return &out, nil
}

// Update applies an administrative edit. Changing the full name also
// refreshes the display name unless one is given explicitly.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.FullName != nil && patch.Name == nil {
		name := domain.DisplayName(*patch.FullName)
		patch.Name = &name
	}
	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	out := updated.Sanitized()
	return &out, nil
}

// UpdateProfile applies a self-service edit to the actor's own account.
// Role, plan and verification state are out of its reach.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, p ports.ProfilePatch) (*domain.User, error) {
	return s.Update(ctx, actorID, domain.UserPatch{
		Name:     p.Name,
		Email:    p.Email,
		Username: p.Username,
		FullName: p.FullName,
		Address:  p.Address,
		Mobile:   p.Mobile,
		Avatar:   p.Avatar,
	})
}

// Delete removes the account and then the invoices it created. It reports
// false when no such account exists, in which case nothing else is touched.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if !removed {
		return false, nil
	}

	n, err := s.invoices.DeleteByOwner(ctx, id)
	if err != nil {
		return true, fmt.Errorf("delete user invoices: %w", err)
	}
	s.logger.Info().Str("user_id", id).Int("invoices_removed", n).Msg("user deleted")
	return true, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := u.Sanitized()
	return &out, nil
}

// List returns the users matching search in insertion order.
func (s *UserService) List(ctx context.Context, search string) ([]domain.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.MatchesSearch(search) {
			out = append(out, u.Sanitized())
		}
	}
	return out, nil
}

func (s *UserService) Stats(ctx context.Context) (domain.UserStats, error) {
	return s.users.Stats(ctx)
}
