package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

func newTestNotificationHandler() (*NotificationHandler, *stubNotificationService) {
	stub := &stubNotificationService{items: []domain.Notification{
		{ID: "1", Title: "Payment received", Timestamp: fixedNow.Add(-5 * time.Minute), Priority: domain.PriorityHigh},
		{ID: "2", Title: "New user", Timestamp: fixedNow.Add(-2 * time.Hour), Read: true, Priority: domain.PriorityLow},
		{ID: "3", Title: "Invoice overdue", Timestamp: fixedNow.Add(-3 * 24 * time.Hour), Priority: domain.PriorityMedium},
	}}
	h := NewNotificationHandler(stub)
	h.now = func() time.Time { return fixedNow }
	return h, stub
}

func TestNotificationHandler_List(t *testing.T) {
	h, _ := newTestNotificationHandler()

	c, rec := newContext(http.MethodGet, "/v1/notifications", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			TimeAgo string `json:"time_ago"`
		} `json:"items"`
		UnreadCount int `json:"unread_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d", resp.UnreadCount)
	}
	want := []string{"5m ago", "2h ago", "3d ago"}
	for i, item := range resp.Items {
		if item.TimeAgo != want[i] {
			t.Fatalf("item %s: expected %q, got %q", item.ID, want[i], item.TimeAgo)
		}
	}
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	h, _ := newTestNotificationHandler()

	c, rec := newContext(http.MethodGet, "/v1/notifications/unread-count", "")
	if err := h.UnreadCount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp countResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2, got %d", resp.Count)
	}
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	h, stub := newTestNotificationHandler()

	c, rec := newContext(http.MethodPost, "/v1/notifications/1/read", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.MarkRead(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.marked) != 1 || stub.marked[0] != "1" {
		t.Fatalf("unexpected marks: %v", stub.marked)
	}

	c, _ = newContext(http.MethodPost, "/v1/notifications/404/read", "")
	c.SetParamNames("id")
	c.SetParamValues("404")
	if err := h.MarkRead(c); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected notification not found, got %v", err)
	}
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	h, _ := newTestNotificationHandler()

	c, rec := newContext(http.MethodPost, "/v1/notifications/read-all", "")
	if err := h.MarkAllRead(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp markReadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Updated != 2 {
		t.Fatalf("expected 2 updated, got %d", resp.Updated)
	}

	c, rec = newContext(http.MethodPost, "/v1/notifications/read-all", "")
	if err := h.MarkAllRead(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Updated != 0 {
		t.Fatalf("second call should change nothing, got %d", resp.Updated)
	}
}
