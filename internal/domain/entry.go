package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is income or expense.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// Entry is a single income or expense ledger row (spec §3 Entry).
type Entry struct {
	ID                int64           `json:"id"`
	OwnerID           int64           `json:"ownerId"`
	CategoryID        int64           `json:"categoryId"`
	CategoryName      string          `json:"categoryName,omitempty"`
	CategoryIcon      string          `json:"categoryIcon,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Type              EntryType       `json:"type"`
	Description       string          `json:"description,omitempty"`
	Date              time.Time       `json:"date"`
	CreatedAt         time.Time       `json:"createdAt"`
	SourceProjectionID *int64         `json:"sourceProjectionId,omitempty"`
}

// Validate checks the entry's own invariants. Category compatibility is
// checked by the service layer, which has the category loaded.
func (e *Entry) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if e.Type != EntryTypeIncome && e.Type != EntryTypeExpense {
		return ErrValidation
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrValidation
	}
	return nil
}

// CreateEntryInput is the service-layer input for CreateEntry.
type CreateEntryInput struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Type        EntryType
	Description string
	Date        time.Time
}

// UpdateEntryInput is the service-layer input for UpdateEntry.
type UpdateEntryInput struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Type        EntryType
	Description string
	Date        time.Time
}

func sanitizeDescription(s string) string {
	return strings.TrimSpace(s)
}

// EntryFilters scopes ListEntries. Page/PageSize are only honored by
// ListPage; List (used by the type/category/range convenience routes)
// ignores them and returns the full matching set.
type EntryFilters struct {
	Type       *EntryType
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// RecentCategory is a category the owner has posted an entry against
// recently, surfaced as an autocomplete/suggestion convenience.
type RecentCategory struct {
	CategoryID int64     `json:"categoryId"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}

// Summary aggregates a user's entries.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int64           `json:"count"`
}

// EntryRepository persists Entry rows.
type EntryRepository interface {
	Create(entry *Entry) (*Entry, error)
	CreateTx(tx interface{}, entry *Entry) (*Entry, error)
	GetByID(ownerID, id int64) (*Entry, error)
	// GetByIDAny loads an entry regardless of owner, so the authorization
	// gate can distinguish "not found" from "forbidden" (spec §7).
	GetByIDAny(id int64) (*Entry, error)
	Update(ownerID, id int64, data *UpdateEntryInput) (*Entry, error)
	Delete(ownerID, id int64) error
	DeleteTx(tx interface{}, ownerID, id int64) error
	List(ownerID int64, filters *EntryFilters) ([]*Entry, error)
	// ListPage is List plus a total count, for the paginated listing
	// endpoint (spec §6).
	ListPage(ownerID int64, filters *EntryFilters) ([]*Entry, int64, error)
	// RecentCategories returns the owner's most recently used categories,
	// most recent first, capped at limit rows.
	RecentCategories(ownerID int64, limit int) ([]*RecentCategory, error)
	Balance(ownerID int64) (decimal.Decimal, error)
	Summary(ownerID int64) (*Summary, error)
	// SumExpensesInWindow sums EXPENSE entries for (owner, category) whose
	// date falls within [start, end] inclusive; used by the Budget Engine
	// to seed consumed amount on creation and by sync-consumption.
	SumExpensesInWindow(ownerID, categoryID int64, start, end time.Time) (decimal.Decimal, error)
}
