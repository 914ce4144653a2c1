package handler

import (
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6,password"`
	Username string `json:"username"  validate:"required,min=3,max=30,username"`
	FullName string `json:"full_name" validate:"required"`
	Address  string `json:"address"   validate:"required"`
	Mobile   string `json:"mobile"    validate:"required,mobile"`
}

type registerResponse struct {
	User              domain.User `json:"user"`
	NeedsVerification bool        `json:"needs_verification"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type verifyEmailRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Token  string `json:"token"   validate:"required"`
}

type verifyEmailResponse struct {
	Verified bool `json:"verified"`
}

type verificationEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// --- Users ---

type updateProfileRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=1"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Username *string `json:"username"  validate:"omitempty,min=3,max=30,username"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Address  *string `json:"address"`
	Mobile   *string `json:"mobile"    validate:"omitempty,mobile"`
	Avatar   *string `json:"avatar"`
}

type createUserRequest struct {
	Email            string `json:"email"             validate:"required,email"`
	Username         string `json:"username"          validate:"required,min=3,max=30,username"`
	FullName         string `json:"full_name"         validate:"required"`
	Address          string `json:"address"           validate:"required"`
	Mobile           string `json:"mobile"            validate:"required,mobile"`
	Role             string `json:"role"              validate:"omitempty,oneof=admin user"`
	SubscriptionPlan string `json:"subscription_plan" validate:"omitempty,oneof='Free Plan' 'Pro Plan'"`
	IsEmailVerified  bool   `json:"is_email_verified"`
	Avatar           string `json:"avatar"`
	Password         string `json:"password"          validate:"omitempty,min=6,password"`
}

type updateUserRequest struct {
	Email            *string `json:"email"             validate:"omitempty,email"`
	Name             *string `json:"name"              validate:"omitempty,min=1"`
	Username         *string `json:"username"          validate:"omitempty,min=3,max=30,username"`
	FullName         *string `json:"full_name"         validate:"omitempty,min=1"`
	Address          *string `json:"address"`
	Mobile           *string `json:"mobile"            validate:"omitempty,mobile"`
	Role             *string `json:"role"              validate:"omitempty,oneof=admin user"`
	SubscriptionPlan *string `json:"subscription_plan" validate:"omitempty,oneof='Free Plan' 'Pro Plan'"`
	IsEmailVerified  *bool   `json:"is_email_verified"`
	Avatar           *string `json:"avatar"`
}

type userListResponse struct {
	Items []domain.User `json:"items"`
	Total int           `json:"total"`
}

type accessResponse struct {
	View    string `json:"view"`
	Allowed bool   `json:"allowed"`
}

// --- Invoices ---

type createInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"  validate:"required"`
	ClientEmail   string          `json:"client_email" validate:"required,email"`
	Amount        decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Currency      string          `json:"currency"     validate:"omitempty,len=3"`
	Status        string          `json:"status"       validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate     string          `json:"issue_date"   validate:"omitempty,datetime=2006-01-02"`
	DueDate       string          `json:"due_date"     validate:"required,datetime=2006-01-02"`
	Description   string          `json:"description"  validate:"required"`
}

type updateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoice_number" validate:"omitempty,min=1"`
	ClientName    *string          `json:"client_name"    validate:"omitempty,min=1"`
	ClientEmail   *string          `json:"client_email"   validate:"omitempty,email"`
	Amount        *decimal.Decimal `json:"amount"         validate:"omitempty,gt=0"`
	Currency      *string          `json:"currency"       validate:"omitempty,len=3"`
	Status        *string          `json:"status"         validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate     *string          `json:"issue_date"     validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string          `json:"due_date"       validate:"omitempty,datetime=2006-01-02"`
	Description   *string          `json:"description"`
}

type listInvoicesQuery struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=all draft sent paid overdue cancelled"`
	Page   int    `query:"page"   validate:"omitempty,min=1"`
	Limit  int    `query:"limit"  validate:"omitempty,min=1,max=100"`
}

// invoiceResponse is an invoice plus the display fields the dashboard renders.
type invoiceResponse struct {
	domain.Invoice
	StatusColor     string `json:"status_color"`
	FormattedAmount string `json:"formatted_amount"`
	PastDue         bool   `json:"past_due"`
}

type invoicePageResponse struct {
	Items      []invoiceResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type invoiceStatsResponse struct {
	domain.InvoiceStats
	FormattedTotalAmount string `json:"formatted_total_amount"`
	FormattedPaidAmount  string `json:"formatted_paid_amount"`
}

type statusBucketResponse struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

type monthlyRevenueResponse struct {
	Month   string          `json:"month"`
	Year    int             `json:"year"`
	Revenue decimal.Decimal `json:"revenue"`
}

type clientRevenueResponse struct {
	Client  string          `json:"client"`
	Revenue decimal.Decimal `json:"revenue"`
}

type chartsResponse struct {
	StatusDistribution []statusBucketResponse   `json:"status_distribution"`
	MonthlyRevenue     []monthlyRevenueResponse `json:"monthly_revenue"`
	TopClients         []clientRevenueResponse  `json:"top_clients,omitempty"`
}

type nextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// --- Notifications ---

type notificationResponse struct {
	domain.Notification
	TimeAgo string `json:"time_ago"`
}

type notificationListResponse struct {
	Items       []notificationResponse `json:"items"`
	UnreadCount int                    `json:"unread_count"`
}

type countResponse struct {
	Count int `json:"count"`
}

type markReadResponse struct {
	Updated int `json:"updated"`
}
