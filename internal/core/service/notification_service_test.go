package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

type stubNotificationRepo struct {
	items []domain.Notification
}

func (r *stubNotificationRepo) List(_ context.Context) ([]domain.Notification, error) {
	out := make([]domain.Notification, len(r.items))
	copy(out, r.items)
	domain.SortNewestFirst(out)
	return out, nil
}

func (r *stubNotificationRepo) UnreadCount(_ context.Context) (int, error) {
	return domain.CountUnread(r.items), nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context) (int, error) {
	n := 0
	for i := range r.items {
		if !r.items[i].Read {
			r.items[i].Read = true
			n++
		}
	}
	return n, nil
}

func TestNotificationService(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := &stubNotificationRepo{items: []domain.Notification{
		{ID: "a", Timestamp: now.Add(-time.Hour)},
		{ID: "b", Timestamp: now, Read: true},
		{ID: "c", Timestamp: now.Add(-2 * time.Hour)},
	}}
	svc := NewNotificationService(repo, zerolog.Nop())
	ctx := context.Background()

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list[0].ID != "b" || list[2].ID != "c" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if n, _ := svc.UnreadCount(ctx); n != 2 {
		t.Fatalf("expected 2 unread, got %d", n)
	}
	if ok, _ := svc.MarkRead(ctx, "zzz"); ok {
		t.Fatalf("expected false for unknown id")
	}
	if ok, _ := svc.MarkRead(ctx, "a"); !ok {
		t.Fatalf("expected true for known id")
	}
	if n, _ := svc.MarkAllRead(ctx); n != 1 {
		t.Fatalf("expected 1 changed, got %d", n)
	}
	if n, _ := svc.UnreadCount(ctx); n != 0 {
		t.Fatalf("expected 0 unread, got %d", n)
	}
}
