package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const collectionNotifications = "notifications"

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository implements ports.NotificationRepository using MongoDB.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

type notificationDoc struct {
	ID         string    `bson:"_id"`
	Type       string    `bson:"type"`
	Title      string    `bson:"title"`
	Message    string    `bson:"message"`
	Timestamp  time.Time `bson:"timestamp"`
	Read       bool      `bson:"read"`
	Actionable bool      `bson:"actionable,omitempty"`
	ActionText string    `bson:"action_text,omitempty"`
	ActionView string    `bson:"action_view,omitempty"`
	Icon       string    `bson:"icon,omitempty"`
	Priority   string    `bson:"priority"`
}

func toNotificationDoc(n domain.Notification) notificationDoc {
	return notificationDoc{
		ID:         n.ID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Timestamp:  n.Timestamp.UTC(),
		Read:       n.Read,
		Actionable: n.Actionable,
		ActionText: n.ActionText,
		ActionView: n.ActionView,
		Icon:       n.Icon,
		Priority:   string(n.Priority),
	}
}

func (d notificationDoc) toDomain() domain.Notification {
	return domain.Notification{
		ID:         d.ID,
		Type:       domain.NotificationType(d.Type),
		Title:      d.Title,
		Message:    d.Message,
		Timestamp:  d.Timestamp.UTC(),
		Read:       d.Read,
		Actionable: d.Actionable,
		ActionText: d.ActionText,
		ActionView: d.ActionView,
		Icon:       d.Icon,
		Priority:   domain.NotificationPriority(d.Priority),
	}
}

func (r *NotificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return int(n), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, bson.M{"read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(res.ModifiedCount), nil
}
