package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

var _ ports.UserRepository = (*UserStore)(nil)

// UserStore keeps users in insertion order.
type UserStore struct {
	mu    sync.RWMutex
	users []domain.User
	now   func() time.Time
}

// NewUserStore returns a store preloaded with initial, kept as given.
func NewUserStore(initial []domain.User, opts ...Option) *UserStore {
	o := buildOptions(opts)
	users := make([]domain.User, len(initial))
	copy(users, initial)
	return &UserStore{users: users, now: o.now}
}

func (s *UserStore) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// conflict checks email and username against every record except skipID.
// Email compares case-insensitively, username exactly.
func (s *UserStore) conflict(email, username, skipID string) error {
	for i := range s.users {
		u := &s.users[i]
		if u.ID == skipID {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return domain.ErrDuplicateEmail
		}
		if u.Username == username {
			return domain.ErrDuplicateUsername
		}
	}
	return nil
}

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conflict(user.Email, user.Username, ""); err != nil {
		return nil, err
	}

	record := *user
	record.ID = domain.NewID()
	record.CreatedAt = s.now()
	if record.Role == "" {
		record.Role = domain.RoleUser
	}
	s.users = append(s.users, record)

	out := record
	return &out, nil
}

func (s *UserStore) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}

	updated := s.users[i]
	patch.Apply(&updated)
	if err := s.conflict(updated.Email, updated.Username, id); err != nil {
		return nil, err
	}
	s.users[i] = updated

	out := updated
	return &out, nil
}

func (s *UserStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return true, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	out := s.users[i]
	return &out, nil
}

// FindByEmail matches the address exactly.
func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findFirst(func(u *domain.User) bool { return u.Email == email })
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.findFirst(func(u *domain.User) bool { return u.Username == username })
}

func (s *UserStore) findFirst(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if match(&s.users[i]) {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *UserStore) Stats(_ context.Context) (domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ComputeUserStats(s.users), nil
}
