package domain

import (
	"fmt"
	"sort"
	"time"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationInvoice  NotificationType = "invoice"
	NotificationUser     NotificationType = "user"
	NotificationSystem   NotificationType = "system"
	NotificationPayment  NotificationType = "payment"
	NotificationActivity NotificationType = "activity"
)

// NotificationPriority orders notifications by urgency.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is an entry of the dashboard's notification panel.
type Notification struct {
	ID         string               `json:"id"`
	Type       NotificationType     `json:"type"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Timestamp  time.Time            `json:"timestamp"`
	Read       bool                 `json:"read"`
	Actionable bool                 `json:"actionable,omitempty"`
	ActionText string               `json:"action_text,omitempty"`
	ActionView string               `json:"action_view,omitempty"`
	Icon       string               `json:"icon,omitempty"`
	Priority   NotificationPriority `json:"priority"`
}

// SortNewestFirst orders notifications by timestamp, most recent first.
// Equal timestamps keep their relative order.
func SortNewestFirst(items []Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}

// CountUnread returns how many notifications have not been read.
func CountUnread(items []Notification) int {
	n := 0
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
)

// FormatRelativeTime buckets the time elapsed between ts and now. Each bucket
// includes its lower bound: exactly 60s is "1m ago" and exactly 3600s is
// "1h ago". Anything a week or older is printed as a date.
func FormatRelativeTime(ts, now time.Time) string {
	elapsed := int64(now.Sub(ts) / time.Second)
	switch {
	case elapsed < secondsPerMinute:
		return "Just now"
	case elapsed < secondsPerHour:
		return fmt.Sprintf("%dm ago", elapsed/secondsPerMinute)
	case elapsed < secondsPerDay:
		return fmt.Sprintf("%dh ago", elapsed/secondsPerHour)
	case elapsed < secondsPerWeek:
		return fmt.Sprintf("%dd ago", elapsed/secondsPerDay)
	default:
		return ts.Format("1/2/2006")
	}
}
