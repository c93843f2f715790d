package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
)

// AuthHandler serves the Identity Resolver's user-facing surface (C2).
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Me echoes the authenticated principal's own user record.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	if p == nil {
		return NewUnauthorizedError(c, "missing authentication")
	}
	user, err := h.auth.Me(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Register is the deprecated self-registration path. Credential ownership
// belongs to the external identity provider (spec §1 Non-goals); this
// route is kept only so old clients get a clean 404 instead of a routing
// error.
func (h *AuthHandler) Register(c echo.Context) error {
	return NewNotFoundError(c, "self-registration is retired; use the identity provider")
}

// Login is the deprecated password-login path. See Register.
func (h *AuthHandler) Login(c echo.Context) error {
	return NewNotFoundError(c, "password login is retired; use the identity provider")
}
