package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
)

// BudgetHandler serves the Budget Engine (C5).
type BudgetHandler struct {
	budgets *service.BudgetService
}

func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// BudgetRequest is the shared request body for create and update.
type BudgetRequest struct {
	CategoryID int64  `json:"categoryId"`
	Cap        string `json:"cap"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Frequency  string `json:"frequency"`
	AutoRenew  bool   `json:"autoRenew"`
}

func (h *BudgetHandler) Create(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	cap, err := decimal.NewFromString(req.Cap)
	if err != nil {
		errs = append(errs, ValidationError{Field: "cap", Message: "must be a valid decimal number"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	budget, err := h.budgets.CreateBudget(p.UserID, service.CreateBudgetInput{
		CategoryID: req.CategoryID,
		Cap:        cap,
		StartDate:  start,
		EndDate:    end,
		Frequency:  domain.Frequency(req.Frequency),
		AutoRenew:  req.AutoRenew,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) Update(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	publicID, err := uuid.Parse(c.Param("publicId"))
	if err != nil {
		return NewValidationError(c, "invalid budget id", nil)
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	cap, err := decimal.NewFromString(req.Cap)
	if err != nil {
		errs = append(errs, ValidationError{Field: "cap", Message: "must be a valid decimal number"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	// None of these routes are admin-scoped (spec §4.9), so the admin
	// bypass never applies here: principal must own the budget.
	budget, err := h.budgets.UpdateBudget(p.UserID, p.UserID, false, publicID, service.UpdateBudgetInput{
		Cap:       cap,
		StartDate: start,
		EndDate:   end,
		Frequency: domain.Frequency(req.Frequency),
		AutoRenew: req.AutoRenew,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) GetByID(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	publicID, err := uuid.Parse(c.Param("publicId"))
	if err != nil {
		return NewValidationError(c, "invalid budget id", nil)
	}
	budget, err := h.budgets.GetByID(p.UserID, false, publicID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) Deactivate(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	publicID, err := uuid.Parse(c.Param("publicId"))
	if err != nil {
		return NewValidationError(c, "invalid budget id", nil)
	}
	if err := h.budgets.Deactivate(p.UserID, false, publicID); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) List(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	budgets, err := h.budgets.ListByOwner(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) ListActive(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	budgets, err := h.budgets.ListCurrent(p.UserID, time.Now().UTC())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) ListNearLimit(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	threshold := decimal.Zero
	if raw := c.QueryParam("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return NewValidationError(c, "invalid threshold", nil)
		}
		threshold = parsed
	}

	budgets, err := h.budgets.ListNearLimit(p.UserID, threshold)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, budgets)
}

// SyncConsumption serves POST /budgets/sync-consumption: recomputes every
// current budget's consumed amount from the ledger (spec §6).
func (h *BudgetHandler) SyncConsumption(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	synced, err := h.budgets.SyncConsumption(c.Request().Context(), p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"synced": synced})
}
