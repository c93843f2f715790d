package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/pocketledger/ledger-backend/internal/domain"
)

// mapError turns a domain/service error into the one ProblemDetails response
// that matches it. Centralized here instead of repeated per handler, per
// Design Note §9.3 (the source's 400-vs-403 inconsistency).
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrBudgetNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrInstallmentNotFound),
		errors.Is(err, domain.ErrContributionNotFound),
		errors.Is(err, domain.ErrProjectionNotFound):
		return NewNotFoundError(c, err.Error())

	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrCategoryNotOwned):
		return NewForbiddenError(c, err.Error())

	case errors.Is(err, domain.ErrAuthInvalid), errors.Is(err, domain.ErrUserInactive):
		return NewUnauthorizedError(c, err.Error())

	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrStateConflict),
		errors.Is(err, domain.ErrDuplicateActiveBudget),
		errors.Is(err, domain.ErrDuplicateName):
		return NewConflictError(c, err.Error())

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrCategoryTypeMismatch),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrGoalNotContributable),
		errors.Is(err, domain.ErrInstallmentNotInGoal),
		errors.Is(err, domain.ErrGuardianRequired),
		errors.Is(err, domain.ErrGuardianInvalid):
		return NewValidationError(c, err.Error(), nil)

	default:
		return NewInternalError(c, "an unexpected error occurred")
	}
}
