package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// DefaultSentinelPassword is accepted for every account by SentinelVerifier.
const DefaultSentinelPassword = "password"

// PasswordVerifier decides whether password unlocks user.
type PasswordVerifier interface {
	Verify(user *domain.User, password string) bool
}

// SentinelVerifier accepts one shared demo password for every account and
// ignores stored hashes. It stands in for real credential checks on demo
// deployments and must not be used anywhere else.
type SentinelVerifier struct {
	Password string
}

func (v SentinelVerifier) Verify(_ *domain.User, password string) bool {
	expected := v.Password
	if expected == "" {
		expected = DefaultSentinelPassword
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}

// BcryptVerifier compares against the user's stored bcrypt hash.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// HashPassword returns a bcrypt hash of password at cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
