package memory

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

var _ ports.InvoiceRepository = (*InvoiceStore)(nil)

// InvoiceStore keeps invoices in insertion order.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices []domain.Invoice
	now      func() time.Time
}

// NewInvoiceStore returns a store preloaded with initial, kept as given.
func NewInvoiceStore(initial []domain.Invoice, opts ...Option) *InvoiceStore {
	o := buildOptions(opts)
	invoices := make([]domain.Invoice, len(initial))
	copy(invoices, initial)
	return &InvoiceStore{invoices: invoices, now: o.now}
}

func (s *InvoiceStore) indexOf(id string) int {
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *InvoiceStore) numbers() []string {
	out := make([]string, len(s.invoices))
	for i := range s.invoices {
		out[i] = s.invoices[i].InvoiceNumber
	}
	return out
}

func (s *InvoiceStore) numberTaken(number, skipID string) bool {
	for i := range s.invoices {
		if s.invoices[i].ID != skipID && s.invoices[i].InvoiceNumber == number {
			return true
		}
	}
	return false
}

func (s *InvoiceStore) NextInvoiceNumber(_ context.Context, year int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NextInvoiceNumber(s.numbers(), year), nil
}

func (s *InvoiceStore) Create(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *inv
	now := s.now()
	if record.InvoiceNumber == "" {
		record.InvoiceNumber = domain.NextInvoiceNumber(s.numbers(), now.Year())
	} else if s.numberTaken(record.InvoiceNumber, "") {
		return nil, domain.ErrDuplicateInvoiceNumber
	}

	record.ID = domain.NewID()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.invoices = append(s.invoices, record)

	out := record
	return &out, nil
}

func (s *InvoiceStore) Update(_ context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrInvoiceNotFound
	}

	updated := s.invoices[i]
	patch.Apply(&updated)
	if patch.InvoiceNumber != nil && s.numberTaken(updated.InvoiceNumber, id) {
		return nil, domain.ErrDuplicateInvoiceNumber
	}
	updated.UpdatedAt = s.now()
	s.invoices[i] = updated

	out := updated
	return &out, nil
}

func (s *InvoiceStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
	return true, nil
}

func (s *InvoiceStore) DeleteByOwner(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.invoices[:0]
	removed := 0
	for _, inv := range s.invoices {
		if inv.CreatedBy == userID {
			removed++
			continue
		}
		kept = append(kept, inv)
	}
	s.invoices = kept
	return removed, nil
}

func (s *InvoiceStore) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	out := s.invoices[i]
	return &out, nil
}

func (s *InvoiceStore) ListByUser(_ context.Context, userID string) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.CreatedBy == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *InvoiceStore) ListAll(_ context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out, nil
}
