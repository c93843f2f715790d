package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pocketledger/ledger-backend/internal/auth"
	"github.com/pocketledger/ledger-backend/internal/handler"
)

// contextKey avoids collisions with other packages' context keys.
type contextKey string

const (
	// PrincipalKey is the context key for the resolved auth.Principal.
	PrincipalKey contextKey = "principal"
)

// IdentityResolver maps a verified auth.Principal to the internal numeric
// user id (C2). It is implemented by the user service, which has
// repository access; the middleware only depends on this narrow interface
// so it never imports the service package directly.
type IdentityResolver interface {
	ResolvePrincipal(ctx context.Context, p *auth.Principal) (userID int64, isAdmin bool, err error)
}

// AuthMiddleware authenticates requests by trying ES256 first and, when
// that fails and legacy auth is enabled, falling back to HS256 — strictly
// second-chance, per spec §4.1.
type AuthMiddleware struct {
	verifier       *auth.Verifier
	legacyVerifier *auth.LegacyVerifier
	legacyEnabled  bool
	identity       IdentityResolver
}

// NewAuthMiddleware builds an AuthMiddleware. legacyVerifier may be nil when
// legacy auth is disabled.
func NewAuthMiddleware(verifier *auth.Verifier, legacyVerifier *auth.LegacyVerifier, legacyEnabled bool, identity IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:       verifier,
		legacyVerifier: legacyVerifier,
		legacyEnabled:  legacyEnabled,
		identity:       identity,
	}
}

// Authenticate returns Echo middleware that establishes the request
// principal (C1 + C2) before the handler runs.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handler.NewUnauthorizedError(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return handler.NewUnauthorizedError(c, "invalid authorization header format")
			}
			token := parts[1]

			principal, err := m.verifier.Verify(token)
			if err != nil {
				if !m.legacyEnabled || m.legacyVerifier == nil {
					log.Debug().Err(err).Msg("ES256 verification failed, legacy auth disabled")
					return handler.NewUnauthorizedError(c, "invalid token")
				}
				principal, err = m.legacyVerifier.Verify(token)
				if err != nil {
					log.Debug().Err(err).Msg("legacy verification also failed")
					return handler.NewUnauthorizedError(c, "invalid token")
				}
			}

			userID, isAdmin, err := m.identity.ResolvePrincipal(c.Request().Context(), principal)
			if err != nil {
				log.Debug().Err(err).Msg("identity resolution failed")
				return handler.NewUnauthorizedError(c, "user not found or inactive")
			}

			scoped := &Principal{UserID: userID, IsAdmin: isAdmin}
			ctx := context.WithValue(c.Request().Context(), PrincipalKey, scoped)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Principal is the per-request authenticated user, expressed only in
// internal ids (spec §4.2: downstream code never sees the external
// subject).
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// GetPrincipal extracts the authenticated Principal from the request
// context. Only valid downstream of AuthMiddleware.Authenticate.
func GetPrincipal(c echo.Context) *Principal {
	if p, ok := c.Request().Context().Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}
