package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// DefaultVerificationToken is the only token VerifyEmail accepts unless
// configured otherwise.
const DefaultVerificationToken = "mock-verification-token"

// AuthConfig tunes AuthService.
type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	VerificationToken string
	HashCost          int
	Latency           Latency
}

// AuthService implements sign-in, registration and e-mail verification.
type AuthService struct {
	repo     ports.UserRepository
	verifier PasswordVerifier
	mail     ports.MailQueue
	cfg      AuthConfig
	logger   zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	repo ports.UserRepository,
	verifier PasswordVerifier,
	mail ports.MailQueue,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.VerificationToken == "" {
		cfg.VerificationToken = DefaultVerificationToken
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if verifier == nil {
		verifier = SentinelVerifier{}
	}
	return &AuthService{repo: repo, verifier: verifier, mail: mail, cfg: cfg, logger: logger}
}

// Authenticate looks the user up by exact e-mail and checks the password.
// Unknown e-mail and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if err := wait(ctx, s.cfg.Latency.Authenticate); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.verifier.Verify(user, password) {
		s.logger.Debug().Str("user_id", user.ID).Msg("password rejected")
		return nil, domain.ErrInvalidCredentials
	}
	out := user.Sanitized()
	return &out, nil
}

// Register creates an unverified account with role user on the free plan.
// The e-mail check runs before the username check so callers get the more
// specific error first; the store's own check is authoritative.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	if err := wait(ctx, s.cfg.Latency.Register); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := HashPassword(in.Password, s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	fullName := strings.TrimSpace(in.FullName)
	created, err := s.repo.Create(ctx, &domain.User{
		Email:            strings.TrimSpace(in.Email),
		Name:             domain.DisplayName(fullName),
		Username:         strings.TrimSpace(in.Username),
		FullName:         fullName,
		Address:          strings.TrimSpace(in.Address),
		Mobile:           strings.TrimSpace(in.Mobile),
		Role:             domain.RoleUser,
		SubscriptionPlan: domain.PlanFree,
		IsEmailVerified:  false,
		PasswordHash:     hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return &ports.RegisterResult{User: created.Sanitized(), NeedsVerification: true}, nil
}

// SendVerificationEmail queues a verification mail. Delivery happens in the
// background and never fails the call.
func (s *AuthService) SendVerificationEmail(ctx context.Context, email string) error {
	if err := wait(ctx, s.cfg.Latency.SendVerification); err != nil {
		return err
	}
	if s.mail != nil {
		s.mail.Enqueue(ports.VerificationMail{Email: email, Token: s.cfg.VerificationToken})
	}
	s.logger.Info().Str("email", email).Msg("verification email queued")
	return nil
}

// VerifyEmail marks the account verified when token matches. It reports
// false, without error, for an unknown user or a wrong token.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, token string) (bool, error) {
	if err := wait(ctx, s.cfg.Latency.VerifyEmail); err != nil {
		return false, err
	}
	if token != s.cfg.VerificationToken {
		return false, nil
	}

	verified := true
	_, err := s.repo.Update(ctx, userID, domain.UserPatch{IsEmailVerified: &verified})
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify email: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("email verified")
	return true, nil
}

// IssueToken signs an HS256 token binding the user to sessionID.
func (s *AuthService) IssueToken(user domain.User, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"username":   user.Username,
		"role":       string(user.EffectiveRole()),
		"session_id": sessionID,
		"exp":        time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}
