package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// Actor identifies who is calling a use case. It is built from the
// authenticated session by the transport layer.
type Actor struct {
	UserID string
	Role   domain.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Scope selects which invoices an aggregate covers.
type Scope string

const (
	ScopeMine Scope = "mine"
	ScopeAll  Scope = "all"
)

// CreateInvoiceInput carries a new invoice. An empty InvoiceNumber is
// generated; an empty Status defaults to draft and an empty Currency to USD.
type CreateInvoiceInput struct {
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	Amount        decimal.Decimal
	Currency      string
	Status        domain.InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	Description   string
}

// ListInvoicesFilter carries the list query. Status "" and "all" both mean
// no status filter. Page is 1-based.
type ListInvoicesFilter struct {
	Search string
	Status string
	Page   int
	Limit  int // defaults to 5, capped at 100
}

// InvoicePage is one page of a filtered invoice list.
type InvoicePage struct {
	Items      []domain.Invoice
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// StatusBucket is a slice of the status distribution chart.
type StatusBucket struct {
	Status domain.InvoiceStatus
	Label  string
	Count  int
}

// MonthlyRevenue is one point of the revenue trend chart.
type MonthlyRevenue struct {
	Month   string
	Year    int
	Revenue decimal.Decimal
}

// ClientRevenue is one bar of the top-clients chart.
type ClientRevenue struct {
	Client  string
	Revenue decimal.Decimal
}

// ChartSummary bundles the dashboard charts. TopClients is only filled for
// the admin-wide scope.
type ChartSummary struct {
	StatusDistribution []StatusBucket
	MonthlyRevenue     []MonthlyRevenue
	TopClients         []ClientRevenue
}

// InvoiceService defines invoice use cases. Non-admin actors only see and
// change invoices they created.
type InvoiceService interface {
	Create(ctx context.Context, actor Actor, input CreateInvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Invoice, error)
	Update(ctx context.Context, actor Actor, id string, patch domain.InvoicePatch) (*domain.Invoice, error)
	Delete(ctx context.Context, actor Actor, id string) (bool, error)
	ListMine(ctx context.Context, actor Actor, filter ListInvoicesFilter) (*InvoicePage, error)
	ListAll(ctx context.Context, actor Actor, filter ListInvoicesFilter) (*InvoicePage, error)
	Stats(ctx context.Context, actor Actor, scope Scope) (domain.InvoiceStats, error)
	Charts(ctx context.Context, actor Actor, scope Scope, now time.Time) (*ChartSummary, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
}
