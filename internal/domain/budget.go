package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetState is the Budget Engine's state machine (spec §4.5).
type BudgetState string

const (
	BudgetStateActive   BudgetState = "ACTIVE"
	BudgetStateOver     BudgetState = "OVER"
	BudgetStateInactive BudgetState = "INACTIVE"
)

// Budget caps EXPENSE entries of one category over a date window.
type Budget struct {
	ID         int64           `json:"id"`
	PublicID   uuid.UUID       `json:"publicId"`
	OwnerID    int64           `json:"ownerId"`
	CategoryID int64           `json:"categoryId"`
	Cap        decimal.Decimal `json:"cap"`
	Consumed   decimal.Decimal `json:"consumed"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	Frequency  Frequency       `json:"frequency"`
	State      BudgetState     `json:"state"`
	AutoRenew  bool            `json:"autoRenew"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Validate checks Budget's own field invariants.
func (b *Budget) Validate() error {
	if b.Cap.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !b.EndDate.After(b.StartDate) {
		return ErrInvalidDateRange
	}
	if !b.Frequency.Valid() {
		return ErrValidation
	}
	if b.Consumed.LessThan(decimal.Zero) {
		return ErrValidation
	}
	return nil
}

// RecomputeState derives State from Consumed vs Cap (spec's state
// invariant: state = OVER iff consumed >= cap). INACTIVE is left alone by
// this helper; only the scheduler and explicit deactivation may set it.
func (b *Budget) RecomputeState() {
	if b.State == BudgetStateInactive {
		return
	}
	if b.Consumed.GreaterThanOrEqual(b.Cap) {
		b.State = BudgetStateOver
	} else {
		b.State = BudgetStateActive
	}
}

// NearLimit reports whether consumed/cap >= threshold.
func (b *Budget) NearLimit(threshold decimal.Decimal) bool {
	if b.Cap.IsZero() {
		return false
	}
	ratio := b.Consumed.Div(b.Cap)
	return ratio.GreaterThanOrEqual(threshold)
}

// DefaultNearLimitThreshold is the "near-limit" threshold spec §4.5 uses
// when the caller doesn't supply one.
var DefaultNearLimitThreshold = decimal.NewFromFloat(0.8)

// BudgetRepository persists Budget rows.
type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	CreateTx(tx interface{}, budget *Budget) (*Budget, error)
	GetByID(ownerID int64, publicID uuid.UUID) (*Budget, error)
	GetByIDAny(publicID uuid.UUID) (*Budget, error)
	// GetActiveForCategory finds the single ACTIVE budget for (owner,
	// category), if any. Enforces the uniqueness invariant at read time;
	// the store's partial unique index enforces it at write time.
	GetActiveForCategory(ownerID, categoryID int64) (*Budget, error)
	// GetActiveForCategoryForUpdateTx locks the ACTIVE row with SELECT ...
	// FOR UPDATE inside tx, implementing the read-modify-write isolation
	// spec §5 requires for the consumption delta.
	GetActiveForCategoryForUpdateTx(tx interface{}, ownerID, categoryID int64) (*Budget, error)
	Update(ownerID int64, publicID uuid.UUID, budget *Budget) (*Budget, error)
	UpdateConsumedTx(tx interface{}, id int64, consumed decimal.Decimal, state BudgetState) error
	Deactivate(ownerID int64, publicID uuid.UUID) error
	DeactivateTx(tx interface{}, id int64) error
	ListByOwner(ownerID int64) ([]*Budget, error)
	ListCurrent(ownerID int64, today time.Time) ([]*Budget, error)
	ListNearLimit(ownerID int64, threshold decimal.Decimal) ([]*Budget, error)
	ListOver(ownerID int64) ([]*Budget, error)
	// ListPendingProcessing returns auto-renewing AND non-auto-renewing
	// budgets whose window has expired as of date, so the scheduler can
	// both renew and deactivate (Design Note §9.4 fix).
	ListPendingProcessing(date time.Time) ([]*Budget, error)
}
