package domain

// CategoryType constrains which EntryType a category accepts.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeBoth    CategoryType = "BOTH"
)

// PermitsEntryType is the single source of truth for category/entry type
// compatibility (spec §4.4).
func (t CategoryType) PermitsEntryType(entryType EntryType) bool {
	if t == CategoryTypeBoth {
		return true
	}
	return string(t) == string(entryType)
}

// Category is either a predefined (system-seeded) row or owned by exactly
// one user.
type Category struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	Type        CategoryType `json:"type"`
	Predefined  bool         `json:"predefined"`
	OwnerID     *int64       `json:"ownerId,omitempty"`
}

// VisibleTo reports whether the category may be used by the given owner:
// predefined categories are visible to everyone, user categories only to
// their owner.
func (c *Category) VisibleTo(ownerID int64) bool {
	if c.Predefined {
		return true
	}
	return c.OwnerID != nil && *c.OwnerID == ownerID
}

// CategoryRepository is a read-only lookup surface (spec §4.4); categories
// are seeded out of band, not created through this API.
type CategoryRepository interface {
	GetByID(id int64) (*Category, error)
	ListPredefined() ([]*Category, error)
	ListAvailableTo(ownerID int64) ([]*Category, error)
	ListByType(ownerID int64, t CategoryType) ([]*Category, error)
}
