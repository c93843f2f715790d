package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// TestBudgetRepository_Update_WritesState guards against the UPDATE
// statement silently dropping the recomputed state column: UpdateBudget
// calls budget.RecomputeState() in memory and expects the repository to
// persist it (spec §8 b.state = OVER iff b.consumed >= b.cap).
func TestBudgetRepository_Update_WritesState(t *testing.T) {
	publicID := uuid.New()
	budget := &domain.Budget{
		PublicID:  publicID,
		Cap:       decimal.NewFromInt(50),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		Frequency: domain.FrequencyMonthly,
		AutoRenew: true,
		State:     domain.BudgetStateOver,
	}

	fake := &fakeQuerier{
		row: fakeRow{scan: func(dest ...interface{}) error {
			if len(dest) > 9 {
				if statePtr, ok := dest[9].(*domain.BudgetState); ok {
					*statePtr = domain.BudgetStateOver
				}
			}
			return nil
		}},
	}
	repo := &BudgetRepository{pool: fake}

	updated, err := repo.Update(1, publicID, budget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(fake.lastSQL, "state = $8") {
		t.Errorf("expected UPDATE statement to set state, got SQL: %s", fake.lastSQL)
	}
	if len(fake.lastArgs) != 8 {
		t.Fatalf("expected 8 positional args, got %d: %v", len(fake.lastArgs), fake.lastArgs)
	}
	if fake.lastArgs[7] != domain.BudgetStateOver {
		t.Errorf("expected state arg to be OVER, got %v", fake.lastArgs[7])
	}
	if updated.State != domain.BudgetStateOver {
		t.Errorf("expected returned budget state OVER, got %s", updated.State)
	}
}

// TestBudgetRepository_Update_ActiveState covers a budget whose recomputed
// state is ACTIVE (cap above consumed): the state column must still mirror
// whatever the caller computed, not the stale row.
func TestBudgetRepository_Update_ActiveState(t *testing.T) {
	publicID := uuid.New()
	budget := &domain.Budget{
		PublicID:  publicID,
		Cap:       decimal.NewFromInt(500),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		Frequency: domain.FrequencyMonthly,
		State:     domain.BudgetStateActive,
	}

	fake := &fakeQuerier{
		row: fakeRow{scan: func(dest ...interface{}) error {
			if len(dest) > 9 {
				if statePtr, ok := dest[9].(*domain.BudgetState); ok {
					*statePtr = domain.BudgetStateActive
				}
			}
			return nil
		}},
	}
	repo := &BudgetRepository{pool: fake}

	updated, err := repo.Update(1, publicID, budget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastArgs[7] != domain.BudgetStateActive {
		t.Errorf("expected state arg to be ACTIVE, got %v", fake.lastArgs[7])
	}
	if updated.State != domain.BudgetStateActive {
		t.Errorf("expected returned budget state ACTIVE, got %s", updated.State)
	}
}
