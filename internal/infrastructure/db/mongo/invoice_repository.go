package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const (
	collectionInvoices = "invoices"
	numberAttempts     = 5
)

var _ ports.InvoiceRepository = (*InvoiceRepository)(nil)

// InvoiceRepository implements ports.InvoiceRepository using MongoDB.
// Amounts are stored as Decimal128.
type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

type invoiceDoc struct {
	ID            string               `bson:"_id"`
	InvoiceNumber string               `bson:"invoice_number"`
	ClientName    string               `bson:"client_name"`
	ClientEmail   string               `bson:"client_email"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Currency      string               `bson:"currency"`
	Status        string               `bson:"status"`
	IssueDate     time.Time            `bson:"issue_date"`
	DueDate       time.Time            `bson:"due_date"`
	Description   string               `bson:"description"`
	CreatedBy     string               `bson:"created_by"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func toInvoiceDoc(inv *domain.Invoice) (invoiceDoc, error) {
	amount, err := primitive.ParseDecimal128(inv.Amount.String())
	if err != nil {
		return invoiceDoc{}, fmt.Errorf("encode amount %s: %w", inv.Amount, err)
	}
	return invoiceDoc{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		Amount:        amount,
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate.UTC(),
		DueDate:       inv.DueDate.UTC(),
		Description:   inv.Description,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt.UTC(),
		UpdatedAt:     inv.UpdatedAt.UTC(),
	}, nil
}

func (d invoiceDoc) toDomain() (*domain.Invoice, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount of %s: %w", d.ID, err)
	}
	return &domain.Invoice{
		ID:            d.ID,
		InvoiceNumber: d.InvoiceNumber,
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		Amount:        amount,
		Currency:      d.Currency,
		Status:        domain.InvoiceStatus(d.Status),
		IssueDate:     d.IssueDate.UTC(),
		DueDate:       d.DueDate.UTC(),
		Description:   d.Description,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	prefix := fmt.Sprintf("^INV-%d-", year)
	opts := options.Find().SetProjection(bson.M{"invoice_number": 1})
	cur, err := r.col.Find(ctx, bson.M{"invoice_number": bson.M{"$regex": prefix}}, opts)
	if err != nil {
		return "", fmt.Errorf("scan invoice numbers: %w", err)
	}
	var rows []struct {
		Number string `bson:"invoice_number"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return "", fmt.Errorf("decode invoice numbers: %w", err)
	}

	numbers := make([]string, len(rows))
	for i, row := range rows {
		numbers[i] = row.Number
	}
	return domain.NextInvoiceNumber(numbers, year), nil
}

// Create inserts the invoice. Generated numbers are retried on a collision
// with a concurrent writer; the unique index is the arbiter.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	record := *inv
	now := time.Now().UTC().Truncate(time.Millisecond)
	record.ID = domain.NewID()
	record.CreatedAt = now
	record.UpdatedAt = now

	// Generated numbers follow the current year, matching NextInvoiceNumber.
	generate := record.InvoiceNumber == ""
	year := now.Year()

	for attempt := 0; attempt < numberAttempts; attempt++ {
		if generate {
			number, err := r.NextInvoiceNumber(ctx, year)
			if err != nil {
				return nil, err
			}
			record.InvoiceNumber = number
		}

		err := r.insert(ctx, &record)
		if err == nil {
			return &record, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert invoice: %w", err)
		}
		if !generate {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
	}
	return nil, domain.ErrDuplicateInvoiceNumber
}

func (r *InvoiceRepository) insert(ctx context.Context, inv *domain.Invoice) error {
	doc, err := toInvoiceDoc(inv)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err = r.col.InsertOne(ctx, doc)
	return err
}

func (r *InvoiceRepository) Update(ctx context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	current.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc, err := toInvoiceDoc(current)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	return current, nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *InvoiceRepository) DeleteByOwner(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"created_by": userID})
	if err != nil {
		return 0, fmt.Errorf("delete invoices of %s: %w", userID, err)
	}
	return int(res.DeletedCount), nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc invoiceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return doc.toDomain()
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	return r.list(ctx, bson.M{"created_by": userID})
}

func (r *InvoiceRepository) ListAll(ctx context.Context) ([]domain.Invoice, error) {
	return r.list(ctx, bson.M{})
}

// list returns matching invoices in creation order.
func (r *InvoiceRepository) list(ctx context.Context, filter bson.M) ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var docs []invoiceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}

	out := make([]domain.Invoice, 0, len(docs))
	for _, d := range docs {
		inv, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the invoices collection.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
