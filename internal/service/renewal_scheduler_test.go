package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/testutil"
)

func TestProcessRow_AutoRenewCreatesNextWindowAndDeactivatesPrior(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	expired := &domain.Budget{OwnerID: 1, CategoryID: 1, PublicID: uuid.New(), Cap: amount("500000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, AutoRenew: true, State: domain.BudgetStateActive}
	budgetRepo.AddBudget(expired)

	scheduler := NewRenewalScheduler(budgetRepo, zerolog.Nop(), time.Hour)
	today := end.AddDate(0, 0, 1)

	if err := scheduler.processRow(nil, expired, today); err != nil {
		t.Fatalf("processRow: %v", err)
	}

	prior, _ := budgetRepo.GetByIDAny(expired.PublicID)
	if prior.State != domain.BudgetStateInactive {
		t.Errorf("prior.State = %s, want INACTIVE", prior.State)
	}

	all, _ := budgetRepo.ListByOwner(1)
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	var renewed *domain.Budget
	for _, b := range all {
		if b.PublicID != expired.PublicID {
			renewed = b
		}
	}
	if renewed == nil {
		t.Fatal("no renewed budget row created")
	}
	wantStart := end.AddDate(0, 0, 1)
	if !renewed.StartDate.Equal(wantStart) {
		t.Errorf("renewed.StartDate = %v, want %v", renewed.StartDate, wantStart)
	}
	if renewed.State != domain.BudgetStateActive {
		t.Errorf("renewed.State = %s, want ACTIVE", renewed.State)
	}
}

func TestProcessRow_NonAutoRenewOnlyDeactivates(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	expired := &domain.Budget{OwnerID: 1, CategoryID: 1, PublicID: uuid.New(), Cap: amount("500000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, AutoRenew: false, State: domain.BudgetStateActive}
	budgetRepo.AddBudget(expired)

	scheduler := NewRenewalScheduler(budgetRepo, zerolog.Nop(), time.Hour)
	if err := scheduler.processRow(nil, expired, end.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("processRow: %v", err)
	}

	all, _ := budgetRepo.ListByOwner(1)
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1 (no new row created)", len(all))
	}
	prior, _ := budgetRepo.GetByIDAny(expired.PublicID)
	if prior.State != domain.BudgetStateInactive {
		t.Errorf("prior.State = %s, want INACTIVE", prior.State)
	}
}
