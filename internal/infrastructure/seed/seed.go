// Package seed holds the demo data the dashboard starts with.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Users returns the two demo accounts. Both share passwordHash.
func Users(passwordHash string) []domain.User {
	return []domain.User{
		{
			ID:               "1",
			Email:            "admin@company.com",
			Name:             "Admin User",
			Username:         "admin",
			FullName:         "Administrator User",
			Address:          "123 Admin Street, City, State 12345",
			Mobile:           "+1 (555) 123-4567",
			Role:             domain.RoleAdmin,
			SubscriptionPlan: domain.PlanPro,
			IsEmailVerified:  true,
			CreatedAt:        day(2024, time.January, 1),
			PasswordHash:     passwordHash,
		},
		{
			ID:               "2",
			Email:            "user@company.com",
			Name:             "John Doe",
			Username:         "johndoe",
			FullName:         "John Michael Doe",
			Address:          "456 User Avenue, City, State 67890",
			Mobile:           "+1 (555) 987-6543",
			Role:             domain.RoleUser,
			SubscriptionPlan: domain.PlanFree,
			IsEmailVerified:  true,
			CreatedAt:        day(2024, time.January, 15),
			PasswordHash:     passwordHash,
		},
	}
}

// Invoices returns the demo invoices owned by the accounts from Users.
func Invoices() []domain.Invoice {
	return []domain.Invoice{
		{
			ID:            "1",
			InvoiceNumber: "INV-2024-001",
			ClientName:    "Acme Corporation",
			ClientEmail:   "billing@acme.com",
			Amount:        decimal.NewFromInt(2500),
			Currency:      domain.DefaultCurrency,
			Status:        domain.StatusPaid,
			IssueDate:     day(2024, time.January, 15),
			DueDate:       day(2024, time.February, 15),
			Description:   "Web development services",
			CreatedBy:     "2",
			CreatedAt:     day(2024, time.January, 15),
			UpdatedAt:     day(2024, time.January, 20),
		},
		{
			ID:            "2",
			InvoiceNumber: "INV-2024-002",
			ClientName:    "Tech Solutions Inc",
			ClientEmail:   "accounts@techsolutions.com",
			Amount:        decimal.NewFromInt(1800),
			Currency:      domain.DefaultCurrency,
			Status:        domain.StatusSent,
			IssueDate:     day(2024, time.January, 20),
			DueDate:       day(2024, time.February, 20),
			Description:   "UI/UX Design consultation",
			CreatedBy:     "2",
			CreatedAt:     day(2024, time.January, 20),
			UpdatedAt:     day(2024, time.January, 20),
		},
		{
			ID:            "3",
			InvoiceNumber: "INV-2024-003",
			ClientName:    "StartupXYZ",
			ClientEmail:   "finance@startupxyz.com",
			Amount:        decimal.NewFromInt(3200),
			Currency:      domain.DefaultCurrency,
			Status:        domain.StatusOverdue,
			IssueDate:     day(2024, time.January, 10),
			DueDate:       day(2024, time.January, 25),
			Description:   "Mobile app development",
			CreatedBy:     "2",
			CreatedAt:     day(2024, time.January, 10),
			UpdatedAt:     day(2024, time.January, 10),
		},
		{
			ID:            "4",
			InvoiceNumber: "INV-2024-004",
			ClientName:    "Global Enterprises",
			ClientEmail:   "billing@global.com",
			Amount:        decimal.NewFromInt(4500),
			Currency:      domain.DefaultCurrency,
			Status:        domain.StatusDraft,
			IssueDate:     day(2024, time.January, 25),
			DueDate:       day(2024, time.February, 25),
			Description:   "System integration project",
			CreatedBy:     "1",
			CreatedAt:     day(2024, time.January, 25),
			UpdatedAt:     day(2024, time.January, 25),
		},
	}
}

// Notifications returns the demo feed with timestamps relative to now.
func Notifications(now time.Time) []domain.Notification {
	return []domain.Notification{
		{
			ID:         "1",
			Type:       domain.NotificationInvoice,
			Title:      "Invoice Overdue",
			Message:    "Invoice #INV-001 from Acme Corp is 5 days overdue",
			Timestamp:  now.Add(-2 * time.Hour),
			Actionable: true,
			ActionText: "View Invoice",
			ActionView: string(domain.ViewInvoices),
			Priority:   domain.PriorityHigh,
		},
		{
			ID:        "2",
			Type:      domain.NotificationPayment,
			Title:     "Payment Received",
			Message:   "Payment of $2,500 received for Invoice #INV-003",
			Timestamp: now.Add(-4 * time.Hour),
			Priority:  domain.PriorityMedium,
		},
		{
			ID:         "3",
			Type:       domain.NotificationUser,
			Title:      "New User Registered",
			Message:    "Sarah Johnson has joined as a new user",
			Timestamp:  now.Add(-6 * time.Hour),
			Read:       true,
			Actionable: true,
			ActionText: "View Users",
			ActionView: string(domain.ViewUsers),
			Priority:   domain.PriorityLow,
		},
		{
			ID:        "4",
			Type:      domain.NotificationInvoice,
			Title:     "Invoice Created",
			Message:   "New invoice #INV-005 created for TechStart Inc",
			Timestamp: now.Add(-8 * time.Hour),
			Read:      true,
			Priority:  domain.PriorityLow,
		},
		{
			ID:        "5",
			Type:      domain.NotificationSystem,
			Title:     "System Update",
			Message:   "Invoice management system updated to v2.1.0",
			Timestamp: now.Add(-24 * time.Hour),
			Read:      true,
			Priority:  domain.PriorityMedium,
		},
		{
			ID:         "6",
			Type:       domain.NotificationActivity,
			Title:      "Bulk Action Completed",
			Message:    "Successfully updated 12 invoice statuses",
			Timestamp:  now.Add(-48 * time.Hour),
			Read:       true,
			Actionable: true,
			ActionText: "Undo Changes",
			Priority:   domain.PriorityLow,
		},
	}
}
