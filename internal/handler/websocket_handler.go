package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pocketledger/ledger-backend/internal/auth"
	"github.com/pocketledger/ledger-backend/internal/service"
	ws "github.com/pocketledger/ledger-backend/internal/websocket"
)

// TokenValidator resolves a bearer token to the owning user id, trying the
// primary ES256 path and falling back to legacy HS256, mirroring
// AuthMiddleware.Authenticate. WebSocket upgrade requests carry the token
// as a query parameter since browsers cannot set an Authorization header
// on the handshake.
type TokenValidator interface {
	ValidateToken(token string) (ownerID int64, err error)
}

// WebSocketHandler upgrades authenticated requests to the realtime event
// stream (spec §7 realtime surface).
type WebSocketHandler struct {
	hub            *ws.Hub
	validator      TokenValidator
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, validator TokenValidator, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		allowedOrigins: originMap,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.allowedOrigins[origin] {
		return true
	}
	log.Warn().Str("origin", origin).Msg("websocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles GET /ws.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("websocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	ownerID, err := h.validator.ValidateToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("websocket connection rejected: invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := ws.NewClient(conn, ownerID, h.hub)
	h.hub.Register(client)

	log.Info().Int64("owner_id", ownerID).Str("client_id", client.ID()).Msg("websocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}

// authTokenValidator adapts the ES256/legacy verifier pair and the auth
// service's identity resolution into the TokenValidator shape HandleWS
// needs, trying ES256 first and falling back to legacy HS256 exactly as
// AuthMiddleware.Authenticate does for ordinary HTTP requests.
type authTokenValidator struct {
	verifier       *auth.Verifier
	legacyVerifier *auth.LegacyVerifier
	legacyEnabled  bool
	auth           *service.AuthService
}

// NewAuthTokenValidator builds the TokenValidator HandleWS uses to
// authenticate a WebSocket upgrade request's token query parameter.
func NewAuthTokenValidator(verifier *auth.Verifier, legacyVerifier *auth.LegacyVerifier, legacyEnabled bool, authService *service.AuthService) TokenValidator {
	return &authTokenValidator{
		verifier:       verifier,
		legacyVerifier: legacyVerifier,
		legacyEnabled:  legacyEnabled,
		auth:           authService,
	}
}

func (v *authTokenValidator) ValidateToken(token string) (int64, error) {
	principal, err := v.verifier.Verify(token)
	if err != nil {
		if !v.legacyEnabled || v.legacyVerifier == nil {
			return 0, fmt.Errorf("token invalid: %w", err)
		}
		principal, err = v.legacyVerifier.Verify(token)
		if err != nil {
			return 0, fmt.Errorf("token invalid: %w", err)
		}
	}

	ownerID, _, err := v.auth.ResolvePrincipal(context.Background(), principal)
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}
