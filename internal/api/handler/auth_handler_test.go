package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/utilitrack/usage-system/internal/core/domain"
	"github.com/utilitrack/usage-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, input)
}

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) Revoke(_ context.Context, token string) error {
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[token] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	return s.revoked[token], nil
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_UserSignup_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Role != domain.RoleUser {
				t.Fatalf("user signup must force the user role, got %s", input.Role)
			}
			if input.ElectricityMeterNumber != "EM-42" {
				t.Fatalf("meter number lost: %+v", input)
			}
			return &domain.User{ID: "u1", Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	body := `{"firstname":"Alice","lastname":"Smith","email":"alice@example.com","password":"s3cret","password1":"s3cret","electricity_meter_number":"EM-42"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/user_signup", body)

	if err := h.UserSignup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
}

func TestAuthHandler_AdminSignup_DropsMeterNumbers(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Role != domain.RoleAdmin {
				t.Fatalf("admin signup must force the admin role, got %s", input.Role)
			}
			if input.ElectricityMeterNumber != "" || input.WaterMeterNumber != "" {
				t.Fatalf("admin accounts carry no meter numbers: %+v", input)
			}
			return &domain.User{ID: "a1", Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	body := `{"firstname":"Root","lastname":"Admin","email":"root@example.com","password":"s3cret","password1":"s3cret","electricity_meter_number":"EM-1"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/admin_signup", body)

	if err := h.AdminSignup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_DuplicateEmailPassesThrough(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	body := `{"firstname":"Bob","lastname":"Smith","email":"bob@example.com","password":"s3cret","password1":"s3cret"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/user_signup", body)

	err := h.UserSignup(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/user_signup", `{"email":"not-an-email"}`)

	err := h.UserSignup(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_ReturnsRoleDashboard(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "token123", &domain.User{ID: "a1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"root@example.com","password":"s3cret"}`)

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
	if resp["redirect_to"] != "/admin/dashboard" {
		t.Fatalf("admin must land on /admin/dashboard, got %v", resp["redirect_to"])
	}
}

func TestAuthHandler_Login_BadCredentialsPassThrough(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubRevoker{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"bad"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewAuthHandler(&stubAuthService{}, revoker)

	c, rec := newTestContext(t, http.MethodGet, "/auth/logout", "")
	c.Set("token", "token123")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !revoker.revoked["token123"] {
		t.Fatalf("token must be revoked")
	}
}
