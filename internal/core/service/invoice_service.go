package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const (
	defaultPageSize = 5
	maxPageSize     = 100
	revenueMonths   = 6
	topClientsLimit = 5
)

// InvoiceService implements invoice use cases on top of an InvoiceRepository.
type InvoiceService struct {
	repo   ports.InvoiceRepository
	now    func() time.Time
	logger zerolog.Logger
}

var _ ports.InvoiceService = (*InvoiceService)(nil)

func NewInvoiceService(repo ports.InvoiceRepository, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, now: func() time.Time { return time.Now().UTC() }, logger: logger}
}

// Create stores a new invoice owned by the actor.
func (s *InvoiceService) Create(ctx context.Context, actor ports.Actor, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusDraft
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	issue := in.IssueDate
	if issue.IsZero() {
		issue = s.now()
	}

	created, err := s.repo.Create(ctx, &domain.Invoice{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		ClientName:    strings.TrimSpace(in.ClientName),
		ClientEmail:   strings.TrimSpace(in.ClientEmail),
		Amount:        in.Amount,
		Currency:      currency,
		Status:        status,
		IssueDate:     issue,
		DueDate:       in.DueDate,
		Description:   strings.TrimSpace(in.Description),
		CreatedBy:     actor.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.UserID).Msg("failed to create invoice")
		return nil, err
	}

	s.logger.Info().Str("invoice_number", created.InvoiceNumber).Str("user_id", actor.UserID).Msg("invoice created")
	return created, nil
}

// Get returns an invoice the actor owns, or any invoice for an admin.
func (s *InvoiceService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, inv) {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (s *InvoiceService) Update(ctx context.Context, actor ports.Actor, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	if patch.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		patch.Currency = &c
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("invoice_id", id).Str("user_id", actor.UserID).Msg("invoice updated")
	return updated, nil
}

// Delete reports false for an unknown id.
func (s *InvoiceService) Delete(ctx context.Context, actor ports.Actor, id string) (bool, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrInvoiceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	if !canTouch(actor, inv) {
		return false, domain.ErrForbidden
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	if removed {
		s.logger.Info().Str("invoice_id", id).Str("user_id", actor.UserID).Msg("invoice deleted")
	}
	return removed, nil
}

func canTouch(actor ports.Actor, inv *domain.Invoice) bool {
	return actor.IsAdmin() || inv.CreatedBy == actor.UserID
}

// ListMine pages through the actor's own invoices.
func (s *InvoiceService) ListMine(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error) {
	items, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return paginate(filterInvoices(items, f), f), nil
}

// ListAll pages through every invoice. Admin only.
func (s *InvoiceService) ListAll(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return paginate(filterInvoices(items, f), f), nil
}

func filterInvoices(items []domain.Invoice, f ports.ListInvoicesFilter) []domain.Invoice {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	out := make([]domain.Invoice, 0, len(items))
	for _, inv := range items {
		if status != "" && status != "all" && string(inv.Status) != status {
			continue
		}
		if !inv.MatchesSearch(f.Search) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func paginate(items []domain.Invoice, f ports.ListInvoicesFilter) *ports.InvoicePage {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &ports.InvoicePage{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func (s *InvoiceService) scoped(ctx context.Context, actor ports.Actor, scope ports.Scope) ([]domain.Invoice, error) {
	if scope == ports.ScopeAll {
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}

// Stats aggregates the actor's invoices, or every invoice for ScopeAll.
func (s *InvoiceService) Stats(ctx context.Context, actor ports.Actor, scope ports.Scope) (domain.InvoiceStats, error) {
	items, err := s.scoped(ctx, actor, scope)
	if err != nil {
		return domain.InvoiceStats{}, err
	}
	return domain.ComputeInvoiceStats(items), nil
}

// Charts builds the dashboard charts relative to now.
func (s *InvoiceService) Charts(ctx context.Context, actor ports.Actor, scope ports.Scope, now time.Time) (*ports.ChartSummary, error) {
	items, err := s.scoped(ctx, actor, scope)
	if err != nil {
		return nil, err
	}

	summary := &ports.ChartSummary{
		StatusDistribution: statusDistribution(items),
		MonthlyRevenue:     monthlyRevenue(items, now),
		TopClients:         []ports.ClientRevenue{},
	}
	if scope == ports.ScopeAll {
		summary.TopClients = topClients(items, topClientsLimit)
	}
	return summary, nil
}

// statusDistribution counts invoices per status, omitting empty buckets.
func statusDistribution(items []domain.Invoice) []ports.StatusBucket {
	counts := make(map[domain.InvoiceStatus]int, len(domain.InvoiceStatuses))
	for _, inv := range items {
		counts[inv.Status]++
	}
	out := make([]ports.StatusBucket, 0, len(domain.InvoiceStatuses))
	for _, st := range domain.InvoiceStatuses {
		if counts[st] == 0 {
			continue
		}
		out = append(out, ports.StatusBucket{Status: st, Label: st.Label(), Count: counts[st]})
	}
	return out
}

// monthlyRevenue sums amounts by issue month for the six calendar months
// ending with now's month, oldest first.
func monthlyRevenue(items []domain.Invoice, now time.Time) []ports.MonthlyRevenue {
	out := make([]ports.MonthlyRevenue, 0, revenueMonths)
	for i := revenueMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		revenue := decimal.Zero
		for _, inv := range items {
			issued := inv.IssueDate.In(now.Location())
			if issued.Year() == month.Year() && issued.Month() == month.Month() {
				revenue = revenue.Add(inv.Amount)
			}
		}
		out = append(out, ports.MonthlyRevenue{
			Month:   month.Format("Jan"),
			Year:    month.Year(),
			Revenue: revenue,
		})
	}
	return out
}

// topClients ranks clients by total invoiced amount. Ties keep first-seen order.
func topClients(items []domain.Invoice, limit int) []ports.ClientRevenue {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, inv := range items {
		if inv.ClientName == "" {
			continue
		}
		sum, seen := totals[inv.ClientName]
		if !seen {
			order = append(order, inv.ClientName)
			sum = decimal.Zero
		}
		totals[inv.ClientName] = sum.Add(inv.Amount)
	}

	out := make([]ports.ClientRevenue, 0, len(order))
	for _, name := range order {
		out = append(out, ports.ClientRevenue{Client: name, Revenue: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NextInvoiceNumber previews the number the next invoice issued this year gets.
func (s *InvoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.repo.NextInvoiceNumber(ctx, s.now().Year())
}
