package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
	"github.com/pocketledger/ledger-backend/internal/testutil"
)

func withPrincipal(c echo.Context, userID int64, isAdmin bool) {
	p := &middleware.Principal{UserID: userID, IsAdmin: isAdmin}
	ctx := context.WithValue(c.Request().Context(), middleware.PrincipalKey, p)
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestMe_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	name := "Ada"
	userRepo.AddUser(&domain.User{ID: 1, Email: "ada@example.com", Name: &name, Active: true, Role: domain.RoleUser})

	authService := service.NewAuthService(userRepo)
	h := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withPrincipal(c, 1, false)

	if err := h.Me(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var got domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("expected email ada@example.com, got %s", got.Email)
	}
}

func TestMe_MissingPrincipal(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository())
	h := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMe_UserNotFound(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository())
	h := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withPrincipal(c, 99, false)

	if err := h.Me(c); err != nil {
		t.Fatalf("expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestRegister_Retired(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository())
	h := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestLogin_Retired(t *testing.T) {
	e := echo.New()
	authService := service.NewAuthService(testutil.NewMockUserRepository())
	h := NewAuthHandler(authService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
