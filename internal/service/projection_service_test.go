package service

import (
	"context"
	"testing"
	"time"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/testutil"
)

func newProjectionTestService() (*ProjectionService, *testutil.MockProjectionRepository, *testutil.MockEntryRepository, *testutil.MockCategoryRepository) {
	projectionRepo := testutil.NewMockProjectionRepository()
	entryRepo := testutil.NewMockEntryRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	categories := NewCategoryService(categoryRepo)
	budgets := NewBudgetService(nil, testutil.NewMockBudgetRepository(), entryRepo)
	ledger := NewLedgerService(nil, entryRepo, categories, budgets)
	return NewProjectionService(projectionRepo, ledger), projectionRepo, entryRepo, categoryRepo
}

func TestExecute_MaterializesEntryAndStampsLastExecuted(t *testing.T) {
	svc, projectionRepo, entryRepo, categoryRepo := newProjectionTestService()
	categoryRepo.AddCategory(&domain.Category{Name: "Salary", Type: domain.CategoryTypeIncome, Predefined: true})
	projectionRepo.AddProjection(&domain.Projection{OwnerID: 1, Name: "Paycheck", Amount: amount("300000"), Type: domain.EntryTypeIncome, CategoryID: 1, Frequency: domain.FrequencyMonthly, Active: true})

	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	entry, err := svc.Execute(context.Background(), 1, false, 1, today)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !entry.Amount.Equal(amount("300000")) {
		t.Errorf("entry.Amount = %s, want 300000", entry.Amount)
	}

	if got, _ := entryRepo.List(1, nil); len(got) != 1 {
		t.Errorf("len(entries) = %d, want 1", len(got))
	}

	p, _ := projectionRepo.GetByIDAny(1)
	if p.LastExecuted == nil || !p.LastExecuted.Equal(today) {
		t.Errorf("LastExecuted not stamped correctly: %v", p.LastExecuted)
	}
}

func TestExecute_RejectsInactiveProjection(t *testing.T) {
	svc, projectionRepo, _, _ := newProjectionTestService()
	projectionRepo.AddProjection(&domain.Projection{OwnerID: 1, Name: "Paycheck", Amount: amount("300000"), Type: domain.EntryTypeIncome, CategoryID: 1, Frequency: domain.FrequencyMonthly, Active: false})

	_, err := svc.Execute(context.Background(), 1, false, 1, time.Now().UTC())
	if err != domain.ErrStateConflict {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
}

func TestExecute_ForbiddenForNonOwner(t *testing.T) {
	svc, projectionRepo, _, _ := newProjectionTestService()
	projectionRepo.AddProjection(&domain.Projection{OwnerID: 1, Name: "Paycheck", Amount: amount("300000"), Type: domain.EntryTypeIncome, CategoryID: 1, Frequency: domain.FrequencyMonthly, Active: true})

	_, err := svc.Execute(context.Background(), 2, false, 1, time.Now().UTC())
	if err != domain.ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
