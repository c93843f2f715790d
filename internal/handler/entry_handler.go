package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/middleware"
	"github.com/pocketledger/ledger-backend/internal/service"
)

// EntryHandler serves the Ledger (C3).
type EntryHandler struct {
	ledger *service.LedgerService
}

func NewEntryHandler(ledger *service.LedgerService) *EntryHandler {
	return &EntryHandler{ledger: ledger}
}

// CreateEntryRequest is the request body for POST /transactions.
type CreateEntryRequest struct {
	CategoryID  int64  `json:"categoryId"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (r CreateEntryRequest) toInput() (domain.CreateEntryInput, []ValidationError) {
	var errs []ValidationError

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "must be a valid decimal number"})
	}

	date, err := parseDate(r.Date)
	if err != nil {
		errs = append(errs, ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}

	if r.CategoryID <= 0 {
		errs = append(errs, ValidationError{Field: "categoryId", Message: "is required"})
	}

	return domain.CreateEntryInput{
		CategoryID:  r.CategoryID,
		Amount:      amount,
		Type:        domain.EntryType(r.Type),
		Description: r.Description,
		Date:        date,
	}, errs
}

func (h *EntryHandler) Create(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	var req CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	entry, err := h.ledger.CreateEntry(c.Request().Context(), p.UserID, input)
	if err != nil {
		log.Debug().Err(err).Int64("owner_id", p.UserID).Msg("create entry failed")
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) Update(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid entry id", nil)
	}

	var req CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	input, errs := req.toInput()
	if len(errs) > 0 {
		return NewValidationError(c, "validation failed", errs)
	}

	// Not an admin-scoped route (spec §4.9): never bypass ownership here.
	entry, err := h.ledger.UpdateEntry(c.Request().Context(), p.UserID, p.UserID, false, id, domain.UpdateEntryInput(input))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Delete(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid entry id", nil)
	}

	if err := h.ledger.DeleteEntry(c.Request().Context(), p.UserID, false, id); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EntryHandler) GetByID(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid entry id", nil)
	}

	entry, err := h.ledger.GetByID(p.UserID, false, id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// List serves GET /transactions with optional type, category, and date
// range filters, returning a paginated envelope (spec §6 filters, §6
// supplemented pagination feature).
func (h *EntryHandler) List(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	filters := &domain.EntryFilters{}
	if t := c.QueryParam("type"); t != "" {
		et := domain.EntryType(t)
		filters.Type = &et
	}
	if catStr := c.QueryParam("categoryId"); catStr != "" {
		catID, err := parseInt64FromString(catStr)
		if err != nil {
			return NewValidationError(c, "invalid categoryId", nil)
		}
		filters.CategoryID = &catID
	}
	start, err := parseOptionalDateQuery(c, "start")
	if err != nil {
		return NewValidationError(c, "invalid start date", nil)
	}
	filters.StartDate = start
	end, err := parseOptionalDateQuery(c, "end")
	if err != nil {
		return NewValidationError(c, "invalid end date", nil)
	}
	filters.EndDate = end

	page := domain.DefaultPageSize
	if raw := c.QueryParam("page"); raw != "" {
		page, err = parseIntFromString(raw)
		if err != nil || page <= 0 {
			return NewValidationError(c, "invalid page", nil)
		}
	} else {
		page = 1
	}
	pageSize := domain.DefaultPageSize
	if raw := c.QueryParam("pageSize"); raw != "" {
		pageSize, err = parseIntFromString(raw)
		if err != nil || pageSize <= 0 {
			return NewValidationError(c, "invalid pageSize", nil)
		}
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
	}
	filters.Page = page
	filters.PageSize = pageSize

	entries, total, err := h.ledger.ListEntriesPage(p.UserID, filters)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, NewPage(entries, page, pageSize, total))
}

// RecentCategories serves GET /categories/recent: the caller's most
// recently used categories, for an entry-creation autocomplete (spec §6
// supplemented feature).
func (h *EntryHandler) RecentCategories(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	limit := domain.DefaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := parseIntFromString(raw)
		if err != nil || parsed <= 0 {
			return NewValidationError(c, "invalid limit", nil)
		}
		limit = parsed
	}

	categories, err := h.ledger.RecentCategories(p.UserID, limit)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListByType serves GET /transactions/type/{t}.
func (h *EntryHandler) ListByType(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	t := domain.EntryType(c.Param("type"))
	entries, err := h.ledger.ListEntries(p.UserID, &domain.EntryFilters{Type: &t})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ListByCategory serves GET /transactions/category/{id}.
func (h *EntryHandler) ListByCategory(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	catID, err := parseInt64Param(c, "id")
	if err != nil {
		return NewValidationError(c, "invalid category id", nil)
	}
	entries, err := h.ledger.ListEntries(p.UserID, &domain.EntryFilters{CategoryID: &catID})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ListByRange serves GET /transactions/range?start&end.
func (h *EntryHandler) ListByRange(c echo.Context) error {
	p := middleware.GetPrincipal(c)

	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return NewValidationError(c, "invalid start date", []ValidationError{{Field: "start", Message: "must be in YYYY-MM-DD format"}})
	}
	end, err := parseDate(c.QueryParam("end"))
	if err != nil {
		return NewValidationError(c, "invalid end date", []ValidationError{{Field: "end", Message: "must be in YYYY-MM-DD format"}})
	}

	entries, err := h.ledger.ListEntries(p.UserID, &domain.EntryFilters{StartDate: &start, EndDate: &end})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *EntryHandler) Balance(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	balance, err := h.ledger.Balance(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

func (h *EntryHandler) Summary(c echo.Context) error {
	p := middleware.GetPrincipal(c)
	summary, err := h.ledger.Summary(p.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
