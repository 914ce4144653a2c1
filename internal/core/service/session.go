package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// SessionKey is where the signed-in user is persisted when the process has a
// single client.
const SessionKey = "currentUser"

// SessionKeyFor returns the storage key of an HTTP session.
func SessionKeyFor(sessionID string) string {
	if sessionID == "" {
		return SessionKey
	}
	return SessionKey + ":" + sessionID
}

// Authenticator is the part of AuthService a session needs.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// Session wraps one current-user slot. It starts anonymous; Login or a
// successful Restore make it authenticated. The stored record is the user as
// JSON, restored verbatim with no expiry or signature check.
type Session struct {
	mu     sync.RWMutex
	store  ports.SessionStore
	auth   Authenticator
	key    string
	user   *domain.User
	logger zerolog.Logger
}

var _ ports.UserSession = (*Session)(nil)

func NewSession(store ports.SessionStore, auth Authenticator, key string, logger zerolog.Logger) *Session {
	if key == "" {
		key = SessionKey
	}
	return &Session{store: store, auth: auth, key: key, logger: logger}
}

// Restore loads the persisted user. A missing record leaves the session
// anonymous and returns ErrSessionNotFound; an unreadable one is dropped.
func (s *Session) Restore(ctx context.Context) (*domain.User, error) {
	raw, err := s.store.Load(ctx, s.key)
	if err != nil {
		s.set(nil)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable session")
		s.set(nil)
		_ = s.store.Delete(ctx, s.key)
		return nil, domain.ErrSessionNotFound
	}

	s.set(&user)
	out := user
	return &out, nil
}

// Login authenticates and persists the user. On failure the session is
// anonymous.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.set(nil)
		return nil, err
	}
	if err := s.persist(ctx, *user); err != nil {
		s.set(nil)
		return nil, err
	}
	out := *user
	return &out, nil
}

// Logout clears the slot whatever its state.
func (s *Session) Logout(ctx context.Context) error {
	s.set(nil)
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Replace persists user as the current user.
func (s *Session) Replace(ctx context.Context, user domain.User) error {
	return s.persist(ctx, user)
}

func (s *Session) persist(ctx context.Context, user domain.User) error {
	clean := user.Sanitized()
	raw, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Save(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.set(&clean)
	return nil
}

func (s *Session) set(user *domain.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// User returns a copy of the current user, or nil when anonymous.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	out := *s.user
	return &out
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// HasRole is false when anonymous. A stored user without a role counts as
// RoleUser.
func (s *Session) HasRole(role domain.Role) bool {
	u := s.User()
	if u == nil {
		return false
	}
	return u.EffectiveRole() == role
}

// CanAccess applies the navigation guard for the current user.
func (s *Session) CanAccess(view domain.View) bool {
	u := s.User()
	if u == nil {
		return false
	}
	return domain.CanAccess(u.EffectiveRole(), view)
}

// SessionManager opens per-client sessions over one store.
type SessionManager struct {
	store  ports.SessionStore
	auth   Authenticator
	logger zerolog.Logger
}

var _ ports.SessionManager = (*SessionManager)(nil)

func NewSessionManager(store ports.SessionStore, auth Authenticator, logger zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, auth: auth, logger: logger}
}

func (m *SessionManager) Open(sessionID string) ports.UserSession {
	return NewSession(m.store, m.auth, SessionKeyFor(sessionID), m.logger)
}
