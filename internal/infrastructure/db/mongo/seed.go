package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// Fixtures is the demo data loaded into empty collections.
type Fixtures struct {
	Users         []domain.User
	Invoices      []domain.Invoice
	Notifications []domain.Notification
}

// SeedIfEmpty inserts each fixture set into its collection when that
// collection has no documents yet. Records keep their given ids.
func SeedIfEmpty(ctx context.Context, db *mongo.Database, f Fixtures) error {
	users := make([]interface{}, 0, len(f.Users))
	for i := range f.Users {
		users = append(users, toUserDoc(&f.Users[i]))
	}
	invoices := make([]interface{}, 0, len(f.Invoices))
	for i := range f.Invoices {
		doc, err := toInvoiceDoc(&f.Invoices[i])
		if err != nil {
			return err
		}
		invoices = append(invoices, doc)
	}
	notifications := make([]interface{}, 0, len(f.Notifications))
	for _, n := range f.Notifications {
		notifications = append(notifications, toNotificationDoc(n))
	}

	for name, docs := range map[string][]interface{}{
		collectionUsers:         users,
		collectionInvoices:      invoices,
		collectionNotifications: notifications,
	} {
		if err := seedCollection(ctx, db.Collection(name), docs); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

func seedCollection(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = col.InsertMany(ctx, docs)
	return err
}
