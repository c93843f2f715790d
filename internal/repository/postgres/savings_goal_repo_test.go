package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// TestSavingsGoalRepository_Update_WritesState guards against the UPDATE
// statement silently dropping the recomputed state column: UpdateGoal calls
// existing.RecomputeState() in memory and expects the repository to persist
// it (spec §3/§8 — lowering target below accrued must flip the goal to
// COMPLETED in the database, not just in memory).
func TestSavingsGoalRepository_Update_WritesState(t *testing.T) {
	goal := &domain.SavingsGoal{
		Name:      "Emergency Fund",
		Target:    decimal.NewFromInt(100),
		StartDate: time.Now(),
		Icon:      "piggy-bank",
		Color:     "#00ff00",
		State:     domain.GoalStateCompleted,
	}

	fake := &fakeQuerier{
		row: fakeRow{scan: func(dest ...interface{}) error {
			if len(dest) > 11 {
				if statePtr, ok := dest[11].(*domain.GoalState); ok {
					*statePtr = domain.GoalStateCompleted
				}
			}
			return nil
		}},
	}
	repo := &SavingsGoalRepository{pool: fake}

	updated, err := repo.Update(1, 1, goal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(fake.lastSQL, "state = $9") {
		t.Errorf("expected UPDATE statement to set state, got SQL: %s", fake.lastSQL)
	}
	if len(fake.lastArgs) != 9 {
		t.Fatalf("expected 9 positional args, got %d: %v", len(fake.lastArgs), fake.lastArgs)
	}
	if fake.lastArgs[8] != domain.GoalStateCompleted {
		t.Errorf("expected state arg to be COMPLETED, got %v", fake.lastArgs[8])
	}
	if updated.State != domain.GoalStateCompleted {
		t.Errorf("expected returned goal state COMPLETED, got %s", updated.State)
	}
}

func TestSavingsGoalRepository_Update_ActiveState(t *testing.T) {
	goal := &domain.SavingsGoal{
		Name:      "Vacation",
		Target:    decimal.NewFromInt(2000),
		StartDate: time.Now(),
		State:     domain.GoalStateActive,
	}

	fake := &fakeQuerier{
		row: fakeRow{scan: func(dest ...interface{}) error {
			if len(dest) > 11 {
				if statePtr, ok := dest[11].(*domain.GoalState); ok {
					*statePtr = domain.GoalStateActive
				}
			}
			return nil
		}},
	}
	repo := &SavingsGoalRepository{pool: fake}

	updated, err := repo.Update(1, 2, goal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastArgs[8] != domain.GoalStateActive {
		t.Errorf("expected state arg to be ACTIVE, got %v", fake.lastArgs[8])
	}
	if updated.State != domain.GoalStateActive {
		t.Errorf("expected returned goal state ACTIVE, got %s", updated.State)
	}
}
