package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/infrastructure/seed"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newSeededUserStore() *UserStore {
	return NewUserStore(seed.Users("hash"), WithClock(fixedClock))
}

func TestUserStore_CreateAssignsIDAndTimestamp(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &domain.User{
		Email:    "new@company.com",
		Username: "newbie",
		FullName: "New Person",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, domain.RoleUser, created.Role)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@company.com", found.Email)
}

func TestUserStore_CreateRejectsDuplicates(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	_, err := store.Create(ctx, &domain.User{Email: "admin@company.com", Username: "other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = store.Create(ctx, &domain.User{Email: "other@company.com", Username: "johndoe"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserStore_UpdateRechecksUniqueness(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	taken := "admin"
	_, err := store.Update(ctx, "2", domain.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	own := "user@company.com"
	mobile := "+1 (555) 000-0000"
	updated, err := store.Update(ctx, "2", domain.UserPatch{Email: &own, Mobile: &mobile})
	require.NoError(t, err)
	assert.Equal(t, mobile, updated.Mobile)

	_, err = store.Update(ctx, "missing", domain.UserPatch{Mobile: &mobile})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserStore_Delete(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	before, err := store.List(ctx)
	require.NoError(t, err)

	removed, err := store.Delete(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, removed)

	after, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	removed, err = store.Delete(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	after, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1)

	_, err = store.FindByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserStore_FindersAndStats(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	u, err := store.FindByEmail(ctx, "user@company.com")
	require.NoError(t, err)
	assert.Equal(t, "2", u.ID)

	u, err = store.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = store.FindByEmail(ctx, "ghost@company.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStats{Total: 2, Admins: 1, Users: 1}, stats)
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	store := newSeededUserStore()
	ctx := context.Background()

	u, err := store.FindByID(ctx, "1")
	require.NoError(t, err)
	u.Email = "mutated@company.com"

	again, err := store.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "admin@company.com", again.Email)
}
