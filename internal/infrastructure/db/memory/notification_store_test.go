package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/infrastructure/seed"
)

func TestNotificationStore_ListNewestFirst(t *testing.T) {
	items := seed.Notifications(fixedNow)
	items[0], items[5] = items[5], items[0]
	store := NewNotificationStore(items)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 6)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Timestamp.After(list[i-1].Timestamp))
	}
	assert.Equal(t, "1", list[0].ID)
}

func TestNotificationStore_MarkRead(t *testing.T) {
	store := NewNotificationStore(seed.Notifications(fixedNow))
	ctx := context.Background()

	unread, err := store.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	ok, err := store.MarkRead(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkRead(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkRead(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	unread, err = store.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestNotificationStore_MarkAllRead(t *testing.T) {
	store := NewNotificationStore(seed.Notifications(fixedNow))
	ctx := context.Background()

	changed, err := store.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Zero(t, domain.CountUnread(list))

	changed, err = store.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Zero(t, domain.CountUnread(list))
}
