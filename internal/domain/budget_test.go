package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestBudget(cap, consumed string) *Budget {
	return &Budget{
		ID:         1,
		PublicID:   uuid.New(),
		OwnerID:    1,
		CategoryID: 1,
		Cap:        decimal.RequireFromString(cap),
		Consumed:   decimal.RequireFromString(consumed),
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Frequency:  FrequencyMonthly,
		State:      BudgetStateActive,
		AutoRenew:  true,
	}
}

func TestBudgetRecomputeState(t *testing.T) {
	tests := []struct {
		name     string
		consumed string
		cap      string
		want     BudgetState
	}{
		{"under cap stays active", "200000", "500000", BudgetStateActive},
		{"exactly at cap flips to over", "500000", "500000", BudgetStateOver},
		{"over cap is over", "550000", "500000", BudgetStateOver},
		{"back under cap after edit returns to active", "430000", "500000", BudgetStateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBudget(tt.cap, tt.consumed)
			b.RecomputeState()
			if b.State != tt.want {
				t.Errorf("RecomputeState() = %s, want %s", b.State, tt.want)
			}
		})
	}
}

func TestBudgetRecomputeStateLeavesInactiveAlone(t *testing.T) {
	b := newTestBudget("500000", "0")
	b.State = BudgetStateInactive
	b.RecomputeState()
	if b.State != BudgetStateInactive {
		t.Errorf("expected INACTIVE to be terminal, got %s", b.State)
	}
}

func TestBudgetNearLimit(t *testing.T) {
	b := newTestBudget("500000", "200000")
	if b.NearLimit(DefaultNearLimitThreshold) {
		t.Errorf("200000/500000 should not be near-limit at 0.8")
	}

	b2 := newTestBudget("500000", "400000")
	if !b2.NearLimit(DefaultNearLimitThreshold) {
		t.Errorf("400000/500000 should be near-limit at 0.8")
	}
}

func TestBudgetScenarioConsumption(t *testing.T) {
	// Scenario 1 from spec §8.
	b := newTestBudget("500000", "0")

	b.Consumed = b.Consumed.Add(decimal.RequireFromString("120000"))
	b.Consumed = b.Consumed.Add(decimal.RequireFromString("80000"))
	b.RecomputeState()
	if !b.Consumed.Equal(decimal.RequireFromString("200000")) || b.State != BudgetStateActive {
		t.Fatalf("after 120000+80000: consumed=%s state=%s", b.Consumed, b.State)
	}
	if b.NearLimit(DefaultNearLimitThreshold) {
		t.Fatalf("200000/500000 should not be near-limit")
	}

	b.Consumed = b.Consumed.Add(decimal.RequireFromString("350000"))
	b.RecomputeState()
	if !b.Consumed.Equal(decimal.RequireFromString("550000")) || b.State != BudgetStateOver {
		t.Fatalf("after +350000: consumed=%s state=%s", b.Consumed, b.State)
	}

	b.Consumed = b.Consumed.Sub(decimal.RequireFromString("120000"))
	b.RecomputeState()
	if !b.Consumed.Equal(decimal.RequireFromString("430000")) || b.State != BudgetStateActive {
		t.Fatalf("after deleting 120000 entry: consumed=%s state=%s", b.Consumed, b.State)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := newTestBudget("500000", "0")
	if err := b.Validate(); err != nil {
		t.Fatalf("expected valid budget, got %v", err)
	}

	bad := newTestBudget("0", "0")
	if err := bad.Validate(); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	badRange := newTestBudget("500000", "0")
	badRange.EndDate = badRange.StartDate
	if err := badRange.Validate(); err != ErrInvalidDateRange {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
}
