package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const validRegistration = `{"email":"jane@example.com","password":"secret1","username":"jane_doe","full_name":"Jane Doe","address":"1 Main St","mobile":"+1 (555) 010-2030"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	var sentTo string
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
			if in.Username != "jane_doe" || in.FullName != "Jane Doe" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.RegisterResult{
				User:              domain.User{ID: "3", Email: in.Email, Username: in.Username, Role: domain.RoleUser},
				NeedsVerification: true,
			}, nil
		},
		sendFn: func(ctx context.Context, email string) error {
			sentTo = email
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/register", validRegistration)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["needs_verification"] != true {
		t.Fatalf("expected needs_verification, got %v", resp["needs_verification"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "jane_doe" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
	if sentTo != "jane@example.com" {
		t.Fatalf("expected verification mail to jane@example.com, got %q", sentTo)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	for _, want := range []error{domain.ErrDuplicateEmail, domain.ErrDuplicateUsername} {
		stub := &stubAuthService{
			registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
				return nil, want
			},
			sendFn: func(ctx context.Context, email string) error {
				t.Fatalf("no mail expected on failed registration")
				return nil
			},
		}
		h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

		c, _ := newContext(http.MethodPost, "/auth/register", validRegistration)
		if err := h.Register(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	cases := map[string]string{
		"short password":   `{"email":"a@b.co","password":"123","username":"abc","full_name":"A","address":"x","mobile":"5550100"}`,
		"bad username":     `{"email":"a@b.co","password":"secret1","username":"no spaces","full_name":"A","address":"x","mobile":"5550100"}`,
		"short username":   `{"email":"a@b.co","password":"secret1","username":"ab","full_name":"A","address":"x","mobile":"5550100"}`,
		"bad email":        `{"email":"nope","password":"secret1","username":"abc","full_name":"A","address":"x","mobile":"5550100"}`,
		"bad mobile":       `{"email":"a@b.co","password":"secret1","username":"abc","full_name":"A","address":"x","mobile":"0123"}`,
		"missing fullname": `{"email":"a@b.co","password":"secret1","username":"abc","address":"x","mobile":"5550100"}`,
	}
	for name, body := range cases {
		stub := &stubAuthService{
			registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
				t.Fatalf("%s: should not be called", name)
				return nil, nil
			},
		}
		h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

		c, _ := newContext(http.MethodPost, "/auth/register", body)
		if err := h.Register(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestAuthHandler_Register_RejectsPasswordBcryptCannotHash(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

	for _, password := range []string{strings.Repeat("p", 80), strings.Repeat("ü", 40)} {
		body := `{"email":"a@b.co","password":"` + password + `","username":"abc","full_name":"A","address":"x","mobile":"5550100"}`
		c, _ := newContext(http.MethodPost, "/auth/register", body)
		err := h.Register(c)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "password must be at most 72 bytes") {
			t.Fatalf("unexpected message: %v", err)
		}
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/register", "not-json")
	if code := httpCode(h.Register(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	sess := &stubSession{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "admin@example.com" || password != "password" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "1", Username: "admin", Role: domain.RoleAdmin}, nil
		},
	}
	manager := &stubSessionManager{session: sess}
	stub := &stubAuthService{
		issueTokenFn: func(user domain.User, sessionID string) (string, error) {
			if user.ID != "1" || sessionID != "sess-42" {
				t.Fatalf("unexpected token args: %s %s", user.ID, sessionID)
			}
			return "token123", nil
		},
	}
	h := NewAuthHandler(stub, manager, zerolog.Nop())
	h.newID = func() string { return "sess-42" }

	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"password"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if len(manager.opened) != 1 || manager.opened[0] != "sess-42" {
		t.Fatalf("expected session sess-42 to be opened, got %v", manager.opened)
	}
	if !sess.loggedIn {
		t.Fatalf("expected session login")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	sess := &stubSession{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	stub := &stubAuthService{
		issueTokenFn: func(user domain.User, sessionID string) (string, error) {
			t.Fatalf("no token for a failed login")
			return "", nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{session: sess}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/auth/login", "{")
	if code := httpCode(h.Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sess := &stubSession{user: &domain.User{ID: "2"}}
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/v1/auth/logout", "")
	authenticate(c, "2", domain.RoleUser, sess)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !sess.closed || sess.User() != nil {
		t.Fatalf("expected session to be cleared")
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/v1/auth/logout", "")
	if code := httpCode(h.Logout(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, userID, token string) (bool, error) {
			return userID == "2" && token == "mock-verification-token", nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

	for body, want := range map[string]bool{
		`{"user_id":"2","token":"mock-verification-token"}`: true,
		`{"user_id":"2","token":"wrong"}`:                   false,
	} {
		c, rec := newContext(http.MethodPost, "/auth/verify-email", body)
		if err := h.VerifyEmail(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp verifyEmailResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Verified != want {
			t.Fatalf("body %s: expected verified=%v", body, want)
		}
	}
}

func TestAuthHandler_SendVerificationEmail(t *testing.T) {
	var sentTo string
	stub := &stubAuthService{
		sendFn: func(ctx context.Context, email string) error {
			sentTo = email
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/auth/verification-email", `{"email":"jane@example.com"}`)
	if err := h.SendVerificationEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if sentTo != "jane@example.com" {
		t.Fatalf("unexpected recipient %q", sentTo)
	}
}
