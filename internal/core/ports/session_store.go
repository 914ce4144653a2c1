package ports

import "context"

// SessionStore is a string key-value slot used to persist the signed-in user.
// Load returns domain.ErrSessionNotFound when nothing is stored under key.
type SessionStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
