package domain

import "errors"

// Sentinel errors. Services return these; handlers map them to HTTP status
// codes via a single switch (see handler.mapError) instead of per-handler
// errors.Is chains.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("state conflict")
	ErrAuthInvalid   = errors.New("authentication invalid")
	ErrUserInactive  = errors.New("user is inactive")

	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrGoalNotFound       = errors.New("savings goal not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrProjectionNotFound = errors.New("projection not found")

	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrCategoryTypeMismatch = errors.New("entry type is not compatible with category type")
	ErrCategoryNotOwned    = errors.New("category belongs to another user")
	ErrNameRequired        = errors.New("name is required")
	ErrDuplicateName       = errors.New("name already in use")

	ErrDuplicateActiveBudget = errors.New("an active budget already exists for this category")
	ErrGoalNotContributable  = errors.New("goal is not open for contributions")
	ErrInstallmentNotInGoal  = errors.New("installment does not belong to this goal")

	ErrGuardianRequired = errors.New("child accounts require a guardian")
	ErrGuardianInvalid  = errors.New("guardian must be an active user account")
)

// Validation constants.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)
