package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection is a template for a recurring income/expense. Execution is
// always user-triggered (spec §4.7); no core component runs it on a timer.
type Projection struct {
	ID           int64           `json:"id"`
	OwnerID      int64           `json:"ownerId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Type         EntryType       `json:"type"`
	CategoryID   int64           `json:"categoryId"`
	Frequency    Frequency       `json:"frequency"`
	StartDate    time.Time       `json:"startDate"`
	LastExecuted *time.Time      `json:"lastExecuted,omitempty"`
	Active       bool            `json:"active"`
}

// Validate checks Projection's own field invariants.
func (p *Projection) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if len(p.Name) > MaxNameLength {
		return ErrValidation
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if p.Type != EntryTypeIncome && p.Type != EntryTypeExpense {
		return ErrValidation
	}
	if !p.Frequency.Valid() {
		return ErrValidation
	}
	return nil
}

// ProjectionRepository persists Projection rows.
type ProjectionRepository interface {
	Create(projection *Projection) (*Projection, error)
	GetByID(ownerID, id int64) (*Projection, error)
	GetByIDAny(id int64) (*Projection, error)
	Update(ownerID, id int64, projection *Projection) (*Projection, error)
	Delete(ownerID, id int64) error
	ListByOwner(ownerID int64) ([]*Projection, error)
	MarkExecuted(id int64, date time.Time) error
}
