package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentState is one scheduled step of a goal's payment plan.
type InstallmentState string

const (
	InstallmentStatePending   InstallmentState = "PENDING"
	InstallmentStatePaid      InstallmentState = "PAID"
	InstallmentStateOverdue   InstallmentState = "OVERDUE"
	InstallmentStateCancelled InstallmentState = "CANCELLED"
)

// Installment is one row of a SavingsGoal's installment plan. Installments
// form a contiguous {1..N} sequence per goal (spec §8 invariant).
type Installment struct {
	ID             int64            `json:"id"`
	GoalID         int64            `json:"goalId"`
	Sequence       int32            `json:"sequence"`
	ScheduledDate  time.Time        `json:"scheduledDate"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	State          InstallmentState `json:"state"`
	ContributionID *int64           `json:"contributionId,omitempty"`
}

// InstallmentRepository persists Installment rows.
type InstallmentRepository interface {
	CreateBatchTx(tx interface{}, installments []*Installment) ([]*Installment, error)
	GetByID(goalID, id int64) (*Installment, error)
	GetByIDTx(tx interface{}, goalID, id int64) (*Installment, error)
	ListByGoal(goalID int64) ([]*Installment, error)
	ListPendingByGoalTx(tx interface{}, goalID int64) ([]*Installment, error)
	MarkPaidTx(tx interface{}, id int64, amount decimal.Decimal, contributionID int64) error
	MarkUnpaidTx(tx interface{}, id int64) error
	RebalancePendingTx(tx interface{}, id int64, expectedAmount decimal.Decimal) error
	DeleteByGoalTx(tx interface{}, goalID int64) error
}
