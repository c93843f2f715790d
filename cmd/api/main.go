package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pocketledger/ledger-backend/internal/auth"
	"github.com/pocketledger/ledger-backend/internal/config"
	"github.com/pocketledger/ledger-backend/internal/handler"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/repository/postgres"
	"github.com/pocketledger/ledger-backend/internal/service"
	"github.com/pocketledger/ledger-backend/internal/websocket"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("connected to database")

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	goalRepo := postgres.NewSavingsGoalRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)
	contributionRepo := postgres.NewContributionRepository(pool)
	projectionRepo := postgres.NewProjectionRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	budgetService := service.NewBudgetService(pool, budgetRepo, entryRepo)
	ledgerService := service.NewLedgerService(pool, entryRepo, categoryService, budgetService)
	savingsService := service.NewSavingsService(pool, goalRepo, installmentRepo, contributionRepo)
	projectionService := service.NewProjectionService(projectionRepo, ledgerService)
	renewalScheduler := service.NewRenewalScheduler(budgetRepo, log.Logger, cfg.RenewalInterval)

	// Realtime event hub (A4): wire every mutating service through it so
	// the WebSocket surface actually carries entry, budget, savings-goal
	// and projection changes as they happen.
	hub := websocket.NewHub()
	ledgerService.SetPublisher(hub)
	budgetService.SetPublisher(hub)
	savingsService.SetPublisher(hub)
	projectionService.SetPublisher(hub)
	renewalScheduler.SetPublisher(hub)

	// Token verification: ES256/JWKS primary, HS256 legacy fallback.
	jwks := auth.NewJWKSCache(cfg.JWKSURL)
	verifier := auth.NewVerifier(jwks, cfg.Issuer, cfg.Audience)
	var legacyVerifier *auth.LegacyVerifier
	if cfg.LegacyAuthEnabled {
		legacyVerifier = auth.NewLegacyVerifier(cfg.LegacyHMACSecret, cfg.Issuer)
	}
	authMiddleware := middleware.NewAuthMiddleware(verifier, legacyVerifier, cfg.LegacyAuthEnabled, authService)
	wsTokenValidator := handler.NewAuthTokenValidator(verifier, legacyVerifier, cfg.LegacyAuthEnabled, authService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	entryHandler := handler.NewEntryHandler(ledgerService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	projectionHandler := handler.NewProjectionHandler(projectionService)
	wsHandler := handler.NewWebSocketHandler(hub, wsTokenValidator, cfg.CORSOrigins)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, authMiddleware, authHandler, categoryHandler, entryHandler, budgetHandler, savingsHandler, projectionHandler, wsHandler)

	renewalCtx, cancelRenewal := context.WithCancel(context.Background())
	renewalScheduler.Start(renewalCtx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancelRenewal()
	renewalScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// zerologMiddleware logs each request's method, path, status and latency.
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
