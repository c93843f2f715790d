package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestGoal(target, accrued string) *SavingsGoal {
	freq := FrequencyMonthly
	deadline := date(2026, 6, 1)
	return &SavingsGoal{
		ID:        1,
		PublicID:  uuid.New(),
		OwnerID:   1,
		Name:      "Trip",
		Target:    decimal.RequireFromString(target),
		Accrued:   decimal.RequireFromString(accrued),
		StartDate: date(2026, 1, 1),
		Deadline:  &deadline,
		Frequency: &freq,
		State:     GoalStateActive,
	}
}

func TestSavingsGoalRecomputeStateCompletes(t *testing.T) {
	g := newTestGoal("1200000", "1200000")
	g.RecomputeState()
	if g.State != GoalStateCompleted {
		t.Errorf("expected COMPLETED, got %s", g.State)
	}
}

func TestSavingsGoalRecomputeStateOvershootCompletes(t *testing.T) {
	g := newTestGoal("1200000", "1250000")
	g.RecomputeState()
	if g.State != GoalStateCompleted {
		t.Errorf("expected COMPLETED on overshoot, got %s", g.State)
	}
}

func TestSavingsGoalRecomputeStateReactivatesFromPaused(t *testing.T) {
	g := newTestGoal("1200000", "300000")
	g.State = GoalStatePaused
	g.RecomputeState()
	if g.State != GoalStateActive {
		t.Errorf("expected PAUSED->ACTIVE on contribution, got %s", g.State)
	}
}

func TestSavingsGoalRecomputeStateLeavesActiveAlone(t *testing.T) {
	g := newTestGoal("1200000", "300000")
	g.RecomputeState()
	if g.State != GoalStateActive {
		t.Errorf("expected ACTIVE unchanged, got %s", g.State)
	}
}

func TestSavingsGoalContributable(t *testing.T) {
	tests := []struct {
		state GoalState
		want  bool
	}{
		{GoalStateActive, true},
		{GoalStatePaused, true},
		{GoalStateCompleted, false},
		{GoalStateCancelled, false},
	}
	for _, tt := range tests {
		g := newTestGoal("1200000", "0")
		g.State = tt.state
		if got := g.Contributable(); got != tt.want {
			t.Errorf("Contributable() with state %s = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	g := newTestGoal("1200000", "0")
	if err := g.Validate(); err != nil {
		t.Fatalf("expected valid goal, got %v", err)
	}

	noTarget := newTestGoal("0", "0")
	if err := noTarget.Validate(); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	badDeadline := newTestGoal("1200000", "0")
	past := badDeadline.StartDate.AddDate(0, 0, -1)
	badDeadline.Deadline = &past
	if err := badDeadline.Validate(); err != ErrInvalidDateRange {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}

	negativeAccrued := newTestGoal("1200000", "0")
	negativeAccrued.Accrued = decimal.RequireFromString("-1")
	if err := negativeAccrued.Validate(); err != ErrValidation {
		t.Errorf("expected ErrValidation for negative accrued, got %v", err)
	}
}

func TestSavingsGoalInstallmentPlanSequenceIsContiguous(t *testing.T) {
	// Scenario 3: 1200000 target split across 6 monthly installments of
	// 200000 each, sequence 1..6.
	g := newTestGoal("1200000", "0")
	dates := g.Frequency.StepsUntil(g.StartDate, *g.Deadline)
	if len(dates) != 6 {
		t.Fatalf("expected 6 installment dates, got %d", len(dates))
	}

	per := g.Target.Div(decimal.NewFromInt(int64(len(dates))))
	installments := make([]*Installment, len(dates))
	for i, d := range dates {
		installments[i] = &Installment{
			GoalID:         g.ID,
			Sequence:       int32(i + 1),
			ScheduledDate:  d,
			ExpectedAmount: per,
			State:          InstallmentStatePending,
		}
	}

	for i, inst := range installments {
		if inst.Sequence != int32(i+1) {
			t.Errorf("installment %d has sequence %d, want %d", i, inst.Sequence, i+1)
		}
	}

	var total decimal.Decimal
	for _, inst := range installments {
		total = total.Add(inst.ExpectedAmount)
	}
	if !total.Equal(g.Target) {
		t.Errorf("installments sum to %s, want %s", total, g.Target)
	}
}
