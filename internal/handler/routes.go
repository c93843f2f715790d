package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/ledger-backend/internal/middleware"
)

// RegisterRoutes sets up the whole API surface: public routes under
// /auth, /health and /categories, everything else behind
// authMiddleware.Authenticate() (spec §6).
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *AuthHandler,
	categoryHandler *CategoryHandler,
	entryHandler *EntryHandler,
	budgetHandler *BudgetHandler,
	savingsHandler *SavingsHandler,
	projectionHandler *ProjectionHandler,
	wsHandler *WebSocketHandler,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/type/:type", categoryHandler.ListByType)
	categories.GET("/recent", entryHandler.RecentCategories, authMiddleware.Authenticate())
	categories.GET("/:id", categoryHandler.GetByID)

	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", entryHandler.Create)
	transactions.GET("", entryHandler.List)
	transactions.GET("/balance", entryHandler.Balance)
	transactions.GET("/summary", entryHandler.Summary)
	transactions.GET("/range", entryHandler.ListByRange)
	transactions.GET("/type/:type", entryHandler.ListByType)
	transactions.GET("/category/:id", entryHandler.ListByCategory)
	transactions.GET("/:id", entryHandler.GetByID)
	transactions.PUT("/:id", entryHandler.Update)
	transactions.DELETE("/:id", entryHandler.Delete)

	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/active", budgetHandler.ListActive)
	budgets.GET("/near-limit", budgetHandler.ListNearLimit)
	budgets.POST("/sync-consumption", budgetHandler.SyncConsumption)
	budgets.GET("/:publicId", budgetHandler.GetByID)
	budgets.PUT("/:publicId", budgetHandler.Update)
	budgets.PUT("/:publicId/deactivate", budgetHandler.Deactivate)

	savingsGoals := api.Group("/savings/goals")
	savingsGoals.Use(authMiddleware.Authenticate())
	savingsGoals.POST("", savingsHandler.CreateGoal)
	savingsGoals.GET("", savingsHandler.ListGoals)
	savingsGoals.GET("/:id", savingsHandler.GetGoal)
	savingsGoals.PUT("/:id", savingsHandler.UpdateGoal)
	savingsGoals.DELETE("/:id", savingsHandler.DeleteGoal)
	savingsGoals.GET("/:id/installments", savingsHandler.ListInstallments)
	savingsGoals.GET("/:id/contributions", savingsHandler.ListContributions)

	contributions := api.Group("/savings/contributions")
	contributions.Use(authMiddleware.Authenticate())
	contributions.POST("", savingsHandler.Contribute)
	contributions.PUT("/:id", savingsHandler.UpdateContribution)
	contributions.DELETE("/:id", savingsHandler.DeleteContribution)

	projections := api.Group("/projections")
	projections.Use(authMiddleware.Authenticate())
	projections.POST("", projectionHandler.Create)
	projections.GET("", projectionHandler.List)
	projections.GET("/:id", projectionHandler.GetByID)
	projections.PUT("/:id", projectionHandler.Update)
	projections.DELETE("/:id", projectionHandler.Delete)
	projections.POST("/:id/execute", projectionHandler.Execute)

	e.GET("/ws", wsHandler.HandleWS)
}
