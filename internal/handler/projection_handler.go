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

// ProjectionHandler serves the Projection Engine (C7).
type ProjectionHandler struct {
	projections *service.ProjectionService
}

func NewProjectionHandler(projections *service.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{projections: projections}
}

// ProjectionRequest is the request body for POST /projections.
type ProjectionRequest struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	CategoryID int64  `json:"categoryId"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"startDate"`
}

func (h *ProjectionHandler) Create(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req ProjectionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "must be a valid decimal number"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	projection, err := h.projections.CreateProjection(p.UserID, service.CreateProjectionInput{
		Name:       req.Name,
		Amount:     amount,
		Type:       domain.EntryType(req.Type),
		CategoryID: req.CategoryID,
		Frequency:  domain.Frequency(req.Frequency),
		StartDate:  start,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, projection)
}

// ProjectionUpdateRequest is the request body for PUT /projections/{id}.
type ProjectionUpdateRequest struct {
	ProjectionRequest
	Active bool `json:"active"`
}

func (h *ProjectionHandler) Update(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid projection id", nil)
	}

	var req ProjectionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	var errs []ValidationError
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "must be a valid decimal number"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	// Not an admin-scoped route (spec §4.9): never bypass ownership here.
	projection, err := h.projections.UpdateProjection(p.UserID, false, id, service.UpdateProjectionInput{
		Name:       req.Name,
		Amount:     amount,
		Type:       domain.EntryType(req.Type),
		CategoryID: req.CategoryID,
		Frequency:  domain.Frequency(req.Frequency),
		StartDate:  start,
		Active:     req.Active,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, projection)
}

func (h *ProjectionHandler) GetByID(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid projection id", nil)
	}
	projection, err := h.projections.GetByID(p.UserID, false, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, projection)
}

func (h *ProjectionHandler) List(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	projections, err := h.projections.ListByOwner(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, projections)
}

func (h *ProjectionHandler) Delete(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid projection id", nil)
	}
	if err := h.projections.Delete(p.UserID, false, id); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Execute serves POST /projections/{id}/execute: materializes one Entry
// from the template using today's date (spec §4.7).
func (h *ProjectionHandler) Execute(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid projection id", nil)
	}
	entry, err := h.projections.Execute(c.Request().Context(), p.UserID, false, id, time.Now().UTC())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}
