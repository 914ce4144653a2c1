package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the billing state of an invoice. The store enforces
// no transitions; draft → sent → paid is the usual path and overdue/cancelled
// are set explicitly by the user.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every status in display order.
var InvoiceStatuses = []InvoiceStatus{
	StatusDraft,
	StatusSent,
	StatusPaid,
	StatusOverdue,
	StatusCancelled,
}

// IsValid reports whether s is a known status.
func (s InvoiceStatus) IsValid() bool {
	for _, candidate := range InvoiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInvoiceStatus converts a raw string into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	s := InvoiceStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid invoice status %q", value)
	}
	return s, nil
}

// Label is the human-readable name used by charts.
func (s InvoiceStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

var statusColors = map[InvoiceStatus]string{
	StatusPaid:      "bg-green-100 text-green-800 dark:bg-green-900 dark:text-green-200",
	StatusSent:      "bg-blue-100 text-blue-800 dark:bg-blue-900 dark:text-blue-200",
	StatusOverdue:   "bg-red-100 text-red-800 dark:bg-red-900 dark:text-red-200",
	StatusDraft:     "bg-gray-100 text-gray-800 dark:bg-gray-800 dark:text-gray-200",
	StatusCancelled: "bg-gray-100 text-gray-600 dark:bg-gray-800 dark:text-gray-400",
}

const defaultStatusColor = "bg-gray-100 text-gray-800 dark:bg-gray-800 dark:text-gray-200"

// StatusColor maps a status to its display token. Unknown statuses get the
// neutral token.
func StatusColor(status InvoiceStatus) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return defaultStatusColor
}

// Invoice is a bill issued by a user to one of their clients.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        InvoiceStatus   `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Description   string          `json:"description"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsPastDue reports whether the invoice is still awaiting payment after its
// due date. It is evaluated at query time and never changes the stored status.
func (i Invoice) IsPastDue(now time.Time) bool {
	switch i.Status {
	case StatusSent, StatusOverdue:
		return !i.DueDate.IsZero() && i.DueDate.Before(now)
	default:
		return false
	}
}

// MatchesSearch reports whether term occurs, case-insensitively, in the
// invoice number, client name or client email.
func (i Invoice) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.InvoiceNumber), term) ||
		strings.Contains(strings.ToLower(i.ClientName), term) ||
		strings.Contains(strings.ToLower(i.ClientEmail), term)
}

// InvoicePatch is a partial update. Nil fields are left untouched.
type InvoicePatch struct {
	InvoiceNumber *string
	ClientName    *string
	ClientEmail   *string
	Amount        *decimal.Decimal
	Currency      *string
	Status        *InvoiceStatus
	IssueDate     *time.Time
	DueDate       *time.Time
	Description   *string
}

// Apply merges the non-nil fields of p into inv. UpdatedAt is the caller's job.
func (p InvoicePatch) Apply(inv *Invoice) {
	if p.InvoiceNumber != nil {
		inv.InvoiceNumber = *p.InvoiceNumber
	}
	if p.ClientName != nil {
		inv.ClientName = *p.ClientName
	}
	if p.ClientEmail != nil {
		inv.ClientEmail = *p.ClientEmail
	}
	if p.Amount != nil {
		inv.Amount = *p.Amount
	}
	if p.Currency != nil {
		inv.Currency = *p.Currency
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.IssueDate != nil {
		inv.IssueDate = *p.IssueDate
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Description != nil {
		inv.Description = *p.Description
	}
}

// InvoiceStats aggregates a list of invoices.
type InvoiceStats struct {
	Total       int             `json:"total"`
	Paid        int             `json:"paid"`
	Overdue     int             `json:"overdue"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
}

// ComputeInvoiceStats aggregates exactly the invoices it is given, so callers
// pass either the whole collection or a user-scoped subset. TotalAmount sums
// every status; PaidAmount only paid ones.
func ComputeInvoiceStats(invoices []Invoice) InvoiceStats {
	stats := InvoiceStats{
		Total:       len(invoices),
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
	}
	for _, inv := range invoices {
		stats.TotalAmount = stats.TotalAmount.Add(inv.Amount)
		switch inv.Status {
		case StatusPaid:
			stats.Paid++
			stats.PaidAmount = stats.PaidAmount.Add(inv.Amount)
		case StatusOverdue:
			stats.Overdue++
		}
	}
	return stats
}

const invoiceNumberPrefix = "INV"

// FormatInvoiceNumber renders INV-<year>-<seq> with seq zero-padded to three
// digits. Wider sequences are kept whole.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", invoiceNumberPrefix, year, seq)
}

// NextInvoiceNumber returns the number following the highest sequence already
// used in year. Numbers of other years and unparsable suffixes are ignored;
// the first number of a year is 001.
func NextInvoiceNumber(existing []string, year int) string {
	prefix := fmt.Sprintf("%s-%d-", invoiceNumberPrefix, year)
	highest := 0
	for _, number := range existing {
		suffix, ok := strings.CutPrefix(number, prefix)
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return FormatInvoiceNumber(year, highest+1)
}
