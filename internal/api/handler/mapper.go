package handler

import (
	"strings"
	"time"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		FullName: req.FullName,
		Address:  req.Address,
		Mobile:   req.Mobile,
	}
}

func toProfilePatch(req updateProfileRequest) ports.ProfilePatch {
	return ports.ProfilePatch{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Address:  req.Address,
		Mobile:   req.Mobile,
		Avatar:   req.Avatar,
	}
}

func toCreateUserInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:            req.Email,
		Username:         req.Username,
		FullName:         req.FullName,
		Address:          req.Address,
		Mobile:           req.Mobile,
		Role:             domain.Role(req.Role),
		SubscriptionPlan: domain.SubscriptionPlan(req.SubscriptionPlan),
		IsEmailVerified:  req.IsEmailVerified,
		Avatar:           req.Avatar,
		Password:         req.Password,
	}
}

func toUserPatch(req updateUserRequest) domain.UserPatch {
	patch := domain.UserPatch{
		Email:           req.Email,
		Name:            req.Name,
		Username:        req.Username,
		FullName:        req.FullName,
		Address:         req.Address,
		Mobile:          req.Mobile,
		IsEmailVerified: req.IsEmailVerified,
		Avatar:          req.Avatar,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	if req.SubscriptionPlan != nil {
		plan := domain.SubscriptionPlan(*req.SubscriptionPlan)
		patch.SubscriptionPlan = &plan
	}
	return patch
}

// Dates were checked by the validator, so parse errors cannot happen here.
func parseDate(value string) time.Time {
	t, _ := time.Parse(dateLayout, value)
	return t
}

func toCreateInvoiceInput(req createInvoiceRequest) ports.CreateInvoiceInput {
	in := ports.CreateInvoiceInput{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		Status:        domain.InvoiceStatus(req.Status),
		DueDate:       parseDate(req.DueDate),
		Description:   req.Description,
	}
	if req.IssueDate != "" {
		in.IssueDate = parseDate(req.IssueDate)
	}
	return in
}

func toInvoicePatch(req updateInvoiceRequest) domain.InvoicePatch {
	patch := domain.InvoicePatch{
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		Amount:        req.Amount,
		Description:   req.Description,
	}
	if req.Currency != nil {
		code := strings.ToUpper(*req.Currency)
		patch.Currency = &code
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		patch.Status = &status
	}
	if req.IssueDate != nil {
		d := parseDate(*req.IssueDate)
		patch.IssueDate = &d
	}
	if req.DueDate != nil {
		d := parseDate(*req.DueDate)
		patch.DueDate = &d
	}
	return patch
}

func toListFilter(q listInvoicesQuery) ports.ListInvoicesFilter {
	return ports.ListInvoicesFilter{
		Search: q.Search,
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

// --- Service result → HTTP response ---

func toInvoiceResponse(inv domain.Invoice, now time.Time) invoiceResponse {
	return invoiceResponse{
		Invoice:         inv,
		StatusColor:     domain.StatusColor(inv.Status),
		FormattedAmount: domain.FormatCurrency(inv.Amount, inv.Currency),
		PastDue:         inv.IsPastDue(now),
	}
}

func toInvoicePageResponse(p *ports.InvoicePage, now time.Time) invoicePageResponse {
	items := make([]invoiceResponse, 0, len(p.Items))
	for _, inv := range p.Items {
		items = append(items, toInvoiceResponse(inv, now))
	}
	return invoicePageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// Stats mix currencies, so the formatted totals use the default one.
func toInvoiceStatsResponse(s domain.InvoiceStats) invoiceStatsResponse {
	return invoiceStatsResponse{
		InvoiceStats:         s,
		FormattedTotalAmount: domain.FormatCurrency(s.TotalAmount, domain.DefaultCurrency),
		FormattedPaidAmount:  domain.FormatCurrency(s.PaidAmount, domain.DefaultCurrency),
	}
}

func toChartsResponse(s *ports.ChartSummary) chartsResponse {
	resp := chartsResponse{
		StatusDistribution: make([]statusBucketResponse, 0, len(s.StatusDistribution)),
		MonthlyRevenue:     make([]monthlyRevenueResponse, 0, len(s.MonthlyRevenue)),
	}
	for _, b := range s.StatusDistribution {
		resp.StatusDistribution = append(resp.StatusDistribution, statusBucketResponse{
			Status: string(b.Status),
			Label:  b.Label,
			Count:  b.Count,
			Color:  domain.StatusColor(b.Status),
		})
	}
	for _, m := range s.MonthlyRevenue {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, monthlyRevenueResponse{
			Month:   m.Month,
			Year:    m.Year,
			Revenue: m.Revenue,
		})
	}
	for _, cr := range s.TopClients {
		resp.TopClients = append(resp.TopClients, clientRevenueResponse{
			Client:  cr.Client,
			Revenue: cr.Revenue,
		})
	}
	return resp
}

func toNotificationListResponse(items []domain.Notification, unread int, now time.Time) notificationListResponse {
	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			Notification: n,
			TimeAgo:      domain.FormatRelativeTime(n.Timestamp, now),
		})
	}
	return notificationListResponse{Items: out, UnreadCount: unread}
}
