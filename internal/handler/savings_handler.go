package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
)

// SavingsHandler serves the Savings Engine (C6): goals, installments and
// contributions.
type SavingsHandler struct {
	savings *service.SavingsService
}

func NewSavingsHandler(savings *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{savings: savings}
}

// CreateGoalRequest is the request body for POST /savings/goals.
type CreateGoalRequest struct {
	Name      string  `json:"name"`
	Target    string  `json:"target"`
	StartDate string  `json:"startDate"`
	Deadline  *string `json:"deadline,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	Color     string  `json:"color,omitempty"`
}

func (h *SavingsHandler) CreateGoal(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		errs = append(errs, ValidationError{Field: "target", Message: "must be a valid decimal number"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			errs = append(errs, ValidationError{Field: "deadline", Message: "must be in YYYY-MM-DD format"})
		} else {
			deadline = &d
		}
	}

	var frequency *domain.Frequency
	if req.Frequency != nil && *req.Frequency != "" {
		f := domain.Frequency(*req.Frequency)
		if !f.Valid() {
			errs = append(errs, ValidationError{Field: "frequency", Message: "unrecognized frequency"})
		} else {
			frequency = &f
		}
	}

	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	goal, err := h.savings.CreateGoal(c.Request().Context(), p.UserID, service.CreateGoalInput{
		Name:      req.Name,
		Target:    target,
		StartDate: start,
		Deadline:  deadline,
		Frequency: frequency,
		Icon:      req.Icon,
		Color:     req.Color,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, goal)
}

func (h *SavingsHandler) UpdateGoal(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid goal id", nil)
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		errs = append(errs, ValidationError{Field: "target", Message: "must be a valid decimal number"})
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			errs = append(errs, ValidationError{Field: "deadline", Message: "must be in YYYY-MM-DD format"})
		} else {
			deadline = &d
		}
	}

	var frequency *domain.Frequency
	if req.Frequency != nil && *req.Frequency != "" {
		f := domain.Frequency(*req.Frequency)
		if !f.Valid() {
			errs = append(errs, ValidationError{Field: "frequency", Message: "unrecognized frequency"})
		} else {
			frequency = &f
		}
	}

	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	// Not an admin-scoped route (spec §4.9): never bypass ownership here.
	goal, err := h.savings.UpdateGoal(p.UserID, false, id, service.UpdateGoalInput{
		Name:      req.Name,
		Target:    target,
		Deadline:  deadline,
		Frequency: frequency,
		Icon:      req.Icon,
		Color:     req.Color,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *SavingsHandler) GetGoal(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid goal id", nil)
	}
	goal, err := h.savings.GetByID(p.UserID, false, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *SavingsHandler) ListGoals(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	goals, err := h.savings.ListByOwner(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, goals)
}

func (h *SavingsHandler) DeleteGoal(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid goal id", nil)
	}
	if err := h.savings.DeleteGoal(c.Request().Context(), p.UserID, false, id); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SavingsHandler) ListInstallments(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid goal id", nil)
	}
	installments, err := h.savings.ListInstallments(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, installments)
}

func (h *SavingsHandler) ListContributions(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid goal id", nil)
	}
	contributions, err := h.savings.ListContributions(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, contributions)
}

// ContributionRequest is the request body for POST /savings/contributions.
type ContributionRequest struct {
	GoalID        int64  `json:"goalId"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Timestamp     string `json:"timestamp"`
	InstallmentID *int64 `json:"installmentId,omitempty"`
}

func (h *SavingsHandler) Contribute(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req ContributionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "must be a valid decimal number"})
	}
	ts, err := parseDate(req.Timestamp)
	if err != nil {
		errs = append(errs, ValidationError{Field: "timestamp", Message: "must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	contribution, err := h.savings.Contribute(c.Request().Context(), p.UserID, false, req.GoalID, service.ContributeInput{
		Amount:        amount,
		Description:   req.Description,
		Timestamp:     ts,
		InstallmentID: req.InstallmentID,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, contribution)
}

// UpdateContributionRequest is the request body for PUT
// /savings/contributions/{id}.
type UpdateContributionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (h *SavingsHandler) UpdateContribution(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid contribution id", nil)
	}

	var req UpdateContributionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "validation failed", []ValidationError{{Field: "amount", Message: "must be a valid decimal number"}})
	}

	contribution, err := h.savings.UpdateContribution(c.Request().Context(), p.UserID, false, id, service.UpdateContributionInput{
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, contribution)
}

func (h *SavingsHandler) DeleteContribution(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid contribution id", nil)
	}
	if err := h.savings.DeleteContribution(c.Request().Context(), p.UserID, false, id); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
