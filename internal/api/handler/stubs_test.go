package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoicing-system/internal/api/middleware"
	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

// newContext builds an echo context with the handler validator installed.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets what the Auth and Session middleware would.
func authenticate(c echo.Context, userID string, role domain.Role, sess ports.UserSession) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, string(role))
	if sess != nil {
		c.Set(middleware.ContextSession, sess)
	}
}

// --- Auth ---

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error)
	sendFn        func(ctx context.Context, email string) error
	verifyFn      func(ctx context.Context, userID, token string) (bool, error)
	issueTokenFn  func(user domain.User, sessionID string) (string, error)
	authenticated []string
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	s.authenticated = append(s.authenticated, email)
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) SendVerificationEmail(ctx context.Context, email string) error {
	if s.sendFn == nil {
		return nil
	}
	return s.sendFn(ctx, email)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, userID, token string) (bool, error) {
	return s.verifyFn(ctx, userID, token)
}

func (s *stubAuthService) IssueToken(user domain.User, sessionID string) (string, error) {
	return s.issueTokenFn(user, sessionID)
}

type stubSession struct {
	user     *domain.User
	loginFn  func(ctx context.Context, email, password string) (*domain.User, error)
	replaced *domain.User
	loggedIn bool
	closed   bool
}

func (s *stubSession) Restore(ctx context.Context) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrSessionNotFound
	}
	out := *s.user
	return &out, nil
}

func (s *stubSession) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.loginFn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.user = u
	s.loggedIn = true
	return u, nil
}

func (s *stubSession) Logout(ctx context.Context) error {
	s.user = nil
	s.closed = true
	return nil
}

func (s *stubSession) Replace(ctx context.Context, user domain.User) error {
	s.replaced = &user
	s.user = &user
	return nil
}

func (s *stubSession) User() *domain.User { return s.user }

func (s *stubSession) HasRole(role domain.Role) bool {
	return s.user != nil && s.user.EffectiveRole() == role
}

func (s *stubSession) CanAccess(view domain.View) bool {
	return s.user != nil && domain.CanAccess(s.user.EffectiveRole(), view)
}

type stubSessionManager struct {
	session *stubSession
	opened  []string
}

func (m *stubSessionManager) Open(sessionID string) ports.UserSession {
	m.opened = append(m.opened, sessionID)
	return m.session
}

// --- Users ---

type stubUserService struct {
	createFn  func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn  func(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	profileFn func(ctx context.Context, actorID string, patch ports.ProfilePatch) (*domain.User, error)
	deleteFn  func(ctx context.Context, id string) (bool, error)
	getFn     func(ctx context.Context, id string) (*domain.User, error)
	listFn    func(ctx context.Context, search string) ([]domain.User, error)
	stats     domain.UserStats
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, actorID string, patch ports.ProfilePatch) (*domain.User, error) {
	return s.profileFn(ctx, actorID, patch)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, search string) ([]domain.User, error) {
	return s.listFn(ctx, search)
}

func (s *stubUserService) Stats(ctx context.Context) (domain.UserStats, error) {
	return s.stats, nil
}

// --- Invoices ---

type stubInvoiceService struct {
	createFn   func(ctx context.Context, actor ports.Actor, in ports.CreateInvoiceInput) (*domain.Invoice, error)
	getFn      func(ctx context.Context, actor ports.Actor, id string) (*domain.Invoice, error)
	updateFn   func(ctx context.Context, actor ports.Actor, id string, patch domain.InvoicePatch) (*domain.Invoice, error)
	deleteFn   func(ctx context.Context, actor ports.Actor, id string) (bool, error)
	listMineFn func(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error)
	listAllFn  func(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error)
	statsFn    func(ctx context.Context, actor ports.Actor, scope ports.Scope) (domain.InvoiceStats, error)
	chartsFn   func(ctx context.Context, actor ports.Actor, scope ports.Scope, now time.Time) (*ports.ChartSummary, error)
	nextNumber string
}

func (s *stubInvoiceService) Create(ctx context.Context, actor ports.Actor, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubInvoiceService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Invoice, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubInvoiceService) Update(ctx context.Context, actor ports.Actor, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubInvoiceService) Delete(ctx context.Context, actor ports.Actor, id string) (bool, error) {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubInvoiceService) ListMine(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error) {
	return s.listMineFn(ctx, actor, f)
}

func (s *stubInvoiceService) ListAll(ctx context.Context, actor ports.Actor, f ports.ListInvoicesFilter) (*ports.InvoicePage, error) {
	return s.listAllFn(ctx, actor, f)
}

func (s *stubInvoiceService) Stats(ctx context.Context, actor ports.Actor, scope ports.Scope) (domain.InvoiceStats, error) {
	return s.statsFn(ctx, actor, scope)
}

func (s *stubInvoiceService) Charts(ctx context.Context, actor ports.Actor, scope ports.Scope, now time.Time) (*ports.ChartSummary, error) {
	return s.chartsFn(ctx, actor, scope, now)
}

func (s *stubInvoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.nextNumber, nil
}

// --- Notifications ---

type stubNotificationService struct {
	items  []domain.Notification
	marked []string
}

func (s *stubNotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	return s.items, nil
}

func (s *stubNotificationService) UnreadCount(ctx context.Context) (int, error) {
	return domain.CountUnread(s.items), nil
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id string) (bool, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			s.marked = append(s.marked, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubNotificationService) MarkAllRead(ctx context.Context) (int, error) {
	n := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].Read = true
			n++
		}
	}
	return n, nil
}

// httpCode extracts the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
