package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution adds money to a SavingsGoal, optionally resolving one
// installment.
type Contribution struct {
	ID            int64           `json:"id"`
	GoalID        int64           `json:"goalId"`
	OwnerID       int64           `json:"ownerId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	InstallmentID *int64          `json:"installmentId,omitempty"`
}

// Validate checks Contribution's own field invariants.
func (c *Contribution) Validate() error {
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrValidation
	}
	return nil
}

// ContributionRepository persists Contribution rows.
type ContributionRepository interface {
	CreateTx(tx interface{}, contribution *Contribution) (*Contribution, error)
	GetByID(ownerID, id int64) (*Contribution, error)
	GetByIDAny(id int64) (*Contribution, error)
	UpdateTx(tx interface{}, id int64, amount decimal.Decimal, description string) (*Contribution, error)
	DeleteTx(tx interface{}, id int64) error
	ListByGoal(goalID int64) ([]*Contribution, error)
}
