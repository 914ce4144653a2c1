package ports

import (
	"context"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	// NextInvoiceNumber returns the number a new invoice issued in year would get.
	NextInvoiceNumber(ctx context.Context, year int) (string, error)
	// Create stamps ID, CreatedAt and UpdatedAt. An empty InvoiceNumber is
	// generated from the issue year under the same critical section as the insert.
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	// Update merges patch and always refreshes UpdatedAt.
	Update(ctx context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteByOwner removes every invoice created by userID and returns how many went.
	DeleteByOwner(ctx context.Context, userID string) (int, error)
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error)
	ListAll(ctx context.Context) ([]domain.Invoice, error)
}
