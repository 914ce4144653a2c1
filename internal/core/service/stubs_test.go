package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  []*domain.User
	nextID int
}

func newStubUserRepo(seed ...domain.User) *stubUserRepo {
	r := &stubUserRepo{}
	for i := range seed {
		r.users = append(r.users, cloneUser(&seed[i]))
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = "u" + strconv.Itoa(r.nextID)
	c.CreatedAt = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	r.users = append(r.users, c)
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			patch.Apply(u)
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Stats(ctx context.Context) (domain.UserStats, error) {
	all, _ := r.List(ctx)
	return domain.ComputeUserStats(all), nil
}

type stubInvoiceRepo struct {
	invoices    []domain.Invoice
	createErr   error
	nextID      int
	currentYear int
}

// year is the clock year generated numbers use; 2024 unless set.
func (r *stubInvoiceRepo) year() int {
	if r.currentYear == 0 {
		return 2024
	}
	return r.currentYear
}

func (r *stubInvoiceRepo) NextInvoiceNumber(_ context.Context, year int) (string, error) {
	numbers := make([]string, 0, len(r.invoices))
	for _, inv := range r.invoices {
		numbers = append(numbers, inv.InvoiceNumber)
	}
	return domain.NextInvoiceNumber(numbers, year), nil
}

func (r *stubInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	c := *inv
	if c.InvoiceNumber == "" {
		c.InvoiceNumber, _ = r.NextInvoiceNumber(ctx, r.year())
	}
	r.nextID++
	c.ID = "inv" + strconv.Itoa(r.nextID)
	r.invoices = append(r.invoices, c)
	return &c, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			patch.Apply(&r.invoices[i])
			c := r.invoices[i]
			return &c, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) (bool, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInvoiceRepo) DeleteByOwner(_ context.Context, userID string) (int, error) {
	kept := r.invoices[:0]
	n := 0
	for _, inv := range r.invoices {
		if inv.CreatedBy == userID {
			n++
			continue
		}
		kept = append(kept, inv)
	}
	r.invoices = kept
	return n, nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == id {
			c := inv
			return &c, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *stubInvoiceRepo) ListByUser(_ context.Context, userID string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	for _, inv := range r.invoices {
		if inv.CreatedBy == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) ListAll(_ context.Context) ([]domain.Invoice, error) {
	out := make([]domain.Invoice, len(r.invoices))
	copy(out, r.invoices)
	return out, nil
}

type stubSessionStore struct {
	values map[string]string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{values: make(map[string]string)}
}

func (s *stubSessionStore) Load(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return v, nil
}

func (s *stubSessionStore) Save(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type recordingQueue struct {
	mu    sync.Mutex
	mails []ports.VerificationMail
}

func (q *recordingQueue) Enqueue(m ports.VerificationMail) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.mails = append(q.mails, m)
}
