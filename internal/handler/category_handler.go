package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
)

// CategoryHandler serves the read-only Category Registry (C4).
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List returns predefined categories plus, when authenticated, the
// caller's own categories. Anonymous callers only see predefined ones
// (the route is public, per spec §6).
func (h *CategoryHandler) List(c echo.Context) error {
	if p := middleware.GetPrincipal(c); p != nil {
		cats, err := h.categories.ListAvailableTo(p.UserID)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(http.StatusOK, cats)
	}

	cats, err := h.categories.ListPredefined()
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) GetByID(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid category id", nil)
	}
	cat, err := h.categories.GetByID(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// ListByType filters to categories visible to the caller (or predefined
// only, for anonymous callers) of the given type.
func (h *CategoryHandler) ListByType(c echo.Context) error {
	t := domain.CategoryType(c.Param("type"))
	if t != domain.CategoryTypeIncome && t != domain.CategoryTypeExpense && t != domain.CategoryTypeBoth {
		return NewValidationError(c, "invalid category type", []ValidationError{
			{Field: "type", Message: "must be one of INCOME, EXPENSE, BOTH"},
		})
	}

	var ownerID int64
	if p := middleware.GetPrincipal(c); p != nil {
		ownerID = p.UserID
	}

	cats, err := h.categories.ListByType(ownerID, t)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}
