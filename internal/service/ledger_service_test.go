package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/testutil"
)

func newLedgerTestService() (*LedgerService, *testutil.MockEntryRepository, *testutil.MockCategoryRepository, *testutil.MockBudgetRepository) {
	entryRepo := testutil.NewMockEntryRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	budgetRepo := testutil.NewMockBudgetRepository()

	categories := NewCategoryService(categoryRepo)
	budgets := NewBudgetService(nil, budgetRepo, entryRepo)
	ledger := NewLedgerService(nil, entryRepo, categories, budgets)
	return ledger, entryRepo, categoryRepo, budgetRepo
}

func TestCreateEntry_ExpenseAdjustsBudget(t *testing.T) {
	ledger, _, categoryRepo, budgetRepo := newLedgerTestService()
	categoryRepo.AddCategory(&domain.Category{Name: "Groceries", Type: domain.CategoryTypeExpense, Predefined: true})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	budgetRepo.AddBudget(&domain.Budget{OwnerID: 1, CategoryID: 1, Cap: amount("500000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, State: domain.BudgetStateActive})

	entry, err := ledger.CreateEntry(context.Background(), 1, domain.CreateEntryInput{
		CategoryID: 1,
		Amount:     amount("120000"),
		Type:       domain.EntryTypeExpense,
		Date:       start,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.CategoryName != "Groceries" {
		t.Errorf("CategoryName = %q, want Groceries", entry.CategoryName)
	}

	b, _ := budgetRepo.GetActiveForCategory(1, 1)
	if !b.Consumed.Equal(amount("120000")) {
		t.Errorf("Consumed = %s, want 120000", b.Consumed)
	}
}

func TestCreateEntry_RejectsCategoryTypeMismatch(t *testing.T) {
	ledger, _, categoryRepo, _ := newLedgerTestService()
	categoryRepo.AddCategory(&domain.Category{Name: "Salary", Type: domain.CategoryTypeIncome, Predefined: true})

	_, err := ledger.CreateEntry(context.Background(), 1, domain.CreateEntryInput{
		CategoryID: 1,
		Amount:     amount("1000"),
		Type:       domain.EntryTypeExpense,
		Date:       time.Now().UTC(),
	})
	if err != domain.ErrCategoryTypeMismatch {
		t.Fatalf("err = %v, want ErrCategoryTypeMismatch", err)
	}
}

func TestCreateEntry_RejectsUnownedCategory(t *testing.T) {
	ledger, _, categoryRepo, _ := newLedgerTestService()
	otherOwner := int64(2)
	categoryRepo.AddCategory(&domain.Category{Name: "Personal", Type: domain.CategoryTypeExpense, OwnerID: &otherOwner})

	_, err := ledger.CreateEntry(context.Background(), 1, domain.CreateEntryInput{
		CategoryID: 1,
		Amount:     amount("1000"),
		Type:       domain.EntryTypeExpense,
		Date:       time.Now().UTC(),
	})
	if err != domain.ErrCategoryNotOwned {
		t.Fatalf("err = %v, want ErrCategoryNotOwned", err)
	}
}

func TestUpdateEntry_ReversesOldEffectAndAppliesNew(t *testing.T) {
	ledger, entryRepo, categoryRepo, budgetRepo := newLedgerTestService()
	categoryRepo.AddCategory(&domain.Category{Name: "Groceries", Type: domain.CategoryTypeExpense, Predefined: true})
	categoryRepo.AddCategory(&domain.Category{Name: "Transport", Type: domain.CategoryTypeExpense, Predefined: true})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	budgetRepo.AddBudget(&domain.Budget{OwnerID: 1, CategoryID: 1, Cap: amount("500000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, State: domain.BudgetStateActive})
	budgetRepo.AddBudget(&domain.Budget{OwnerID: 1, CategoryID: 2, Cap: amount("300000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, State: domain.BudgetStateActive})

	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 1, Amount: amount("120000"), Type: domain.EntryTypeExpense, Date: start})
	b1, _ := budgetRepo.GetActiveForCategory(1, 1)
	b1.Consumed = amount("120000")

	updated, err := ledger.UpdateEntry(context.Background(), 1, 1, false, 1, domain.UpdateEntryInput{
		CategoryID:  2,
		Amount:      amount("50000"),
		Type:        domain.EntryTypeExpense,
		Description: "moved to transport",
		Date:        start,
	})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.CategoryName != "Transport" {
		t.Errorf("CategoryName = %q, want Transport", updated.CategoryName)
	}

	b1, _ = budgetRepo.GetActiveForCategory(1, 1)
	if !b1.Consumed.Equal(decimal.Zero) {
		t.Errorf("old category Consumed = %s, want 0", b1.Consumed)
	}
	b2, _ := budgetRepo.GetActiveForCategory(1, 2)
	if !b2.Consumed.Equal(amount("50000")) {
		t.Errorf("new category Consumed = %s, want 50000", b2.Consumed)
	}
}

func TestUpdateEntry_ForbiddenForNonOwner(t *testing.T) {
	ledger, entryRepo, categoryRepo, _ := newLedgerTestService()
	categoryRepo.AddCategory(&domain.Category{Name: "Groceries", Type: domain.CategoryTypeExpense, Predefined: true})
	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 1, Amount: amount("1000"), Type: domain.EntryTypeExpense, Date: time.Now().UTC()})

	_, err := ledger.UpdateEntry(context.Background(), 1, 2, false, 1, domain.UpdateEntryInput{
		CategoryID: 1,
		Amount:     amount("2000"),
		Type:       domain.EntryTypeExpense,
		Date:       time.Now().UTC(),
	})
	if err != domain.ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDeleteEntry_ReversesBudgetConsumption(t *testing.T) {
	ledger, entryRepo, _, budgetRepo := newLedgerTestService()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	budgetRepo.AddBudget(&domain.Budget{OwnerID: 1, CategoryID: 1, Cap: amount("500000"), Consumed: amount("120000"), StartDate: start, EndDate: end, Frequency: domain.FrequencyMonthly, State: domain.BudgetStateActive})
	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 1, Amount: amount("120000"), Type: domain.EntryTypeExpense, Date: start})

	if err := ledger.DeleteEntry(context.Background(), 1, false, 1); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	b, _ := budgetRepo.GetActiveForCategory(1, 1)
	if !b.Consumed.Equal(decimal.Zero) {
		t.Errorf("Consumed = %s, want 0", b.Consumed)
	}
	if _, err := entryRepo.GetByIDAny(1); err != domain.ErrEntryNotFound {
		t.Errorf("entry not deleted, err = %v", err)
	}
}

func TestDeleteEntry_AdminCanDeleteOthers(t *testing.T) {
	ledger, entryRepo, _, _ := newLedgerTestService()
	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 1, Amount: amount("1000"), Type: domain.EntryTypeIncome, Date: time.Now().UTC()})

	if err := ledger.DeleteEntry(context.Background(), 99, true, 1); err != nil {
		t.Fatalf("admin DeleteEntry: %v", err)
	}
}

func TestListEntriesPage_ReturnsOnePageAndTotalCount(t *testing.T) {
	ledger, entryRepo, _, _ := newLedgerTestService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entryRepo.AddEntry(&domain.Entry{
			OwnerID: 1, CategoryID: 1, Amount: amount("1000"),
			Type: domain.EntryTypeExpense, Date: base.AddDate(0, 0, i),
		})
	}

	page, total, err := ledger.ListEntriesPage(1, &domain.EntryFilters{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListEntriesPage: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
}

func TestRecentCategories_ReturnsMostRecentFirst(t *testing.T) {
	ledger, entryRepo, _, _ := newLedgerTestService()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 1, CategoryName: "Groceries", Amount: amount("1000"), Type: domain.EntryTypeExpense, Date: older})
	entryRepo.AddEntry(&domain.Entry{OwnerID: 1, CategoryID: 2, CategoryName: "Transport", Amount: amount("2000"), Type: domain.EntryTypeExpense, Date: newer})

	recent, err := ledger.RecentCategories(1, 10)
	if err != nil {
		t.Fatalf("RecentCategories: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].CategoryID != 2 {
		t.Errorf("recent[0].CategoryID = %d, want 2 (most recently used)", recent[0].CategoryID)
	}
}
