package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalState is the SavingsGoal lifecycle (spec §3 SavingsGoal).
type GoalState string

const (
	GoalStateActive    GoalState = "ACTIVE"
	GoalStateCompleted GoalState = "COMPLETED"
	GoalStatePaused     GoalState = "PAUSED"
	GoalStateCancelled GoalState = "CANCELLED"
)

// SavingsGoal is a savings target with an optional installment plan.
type SavingsGoal struct {
	ID         int64      `json:"id"`
	PublicID   uuid.UUID  `json:"publicId"`
	OwnerID    int64      `json:"ownerId"`
	Name       string     `json:"name"`
	Target     decimal.Decimal `json:"target"`
	Accrued    decimal.Decimal `json:"accrued"`
	StartDate  time.Time  `json:"startDate"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Frequency  *Frequency `json:"frequency,omitempty"`
	Icon       string     `json:"icon,omitempty"`
	Color      string     `json:"color,omitempty"`
	State      GoalState  `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Validate checks SavingsGoal's own field invariants.
func (g *SavingsGoal) Validate() error {
	if g.Name == "" {
		return ErrNameRequired
	}
	if len(g.Name) > MaxNameLength {
		return ErrValidation
	}
	if g.Target.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if g.Accrued.LessThan(decimal.Zero) {
		return ErrValidation
	}
	if g.Deadline != nil && !g.Deadline.After(g.StartDate) {
		return ErrInvalidDateRange
	}
	if g.Frequency != nil && !g.Frequency.Valid() {
		return ErrValidation
	}
	return nil
}

// RecomputeState applies the goal's state invariant after an accrued-amount
// change (spec §4.6 step 4): COMPLETED iff accrued >= target; a PAUSED goal
// that receives a contribution reactivates to ACTIVE.
func (g *SavingsGoal) RecomputeState() {
	if g.Accrued.GreaterThanOrEqual(g.Target) {
		g.State = GoalStateCompleted
		return
	}
	if g.State == GoalStatePaused {
		g.State = GoalStateActive
	}
}

// Contributable reports whether the goal currently accepts contributions.
func (g *SavingsGoal) Contributable() bool {
	return g.State != GoalStateCompleted && g.State != GoalStateCancelled
}

// SavingsGoalRepository persists SavingsGoal rows.
type SavingsGoalRepository interface {
	Create(goal *SavingsGoal) (*SavingsGoal, error)
	CreateTx(tx interface{}, goal *SavingsGoal) (*SavingsGoal, error)
	GetByID(ownerID int64, id int64) (*SavingsGoal, error)
	GetByIDAny(id int64) (*SavingsGoal, error)
	GetByIDForUpdateTx(tx interface{}, id int64) (*SavingsGoal, error)
	GetByName(ownerID int64, name string) (*SavingsGoal, error)
	Update(ownerID int64, id int64, goal *SavingsGoal) (*SavingsGoal, error)
	UpdateProgressTx(tx interface{}, id int64, accrued decimal.Decimal, state GoalState) error
	ListByOwner(ownerID int64) ([]*SavingsGoal, error)
	Delete(ownerID int64, id int64) error
	DeleteTx(tx interface{}, ownerID int64, id int64) error
}
