package domain

import "testing"

func TestCategoryTypePermitsEntryType(t *testing.T) {
	tests := []struct {
		catType   CategoryType
		entryType EntryType
		want      bool
	}{
		{CategoryTypeIncome, EntryTypeIncome, true},
		{CategoryTypeIncome, EntryTypeExpense, false},
		{CategoryTypeExpense, EntryTypeExpense, true},
		{CategoryTypeExpense, EntryTypeIncome, false},
		{CategoryTypeBoth, EntryTypeIncome, true},
		{CategoryTypeBoth, EntryTypeExpense, true},
	}
	for _, tt := range tests {
		if got := tt.catType.PermitsEntryType(tt.entryType); got != tt.want {
			t.Errorf("%s.PermitsEntryType(%s) = %v, want %v", tt.catType, tt.entryType, got, tt.want)
		}
	}
}

func TestCategoryVisibleTo(t *testing.T) {
	predefined := &Category{ID: 1, Predefined: true}
	if !predefined.VisibleTo(42) {
		t.Errorf("predefined category should be visible to any owner")
	}

	owner := int64(7)
	owned := &Category{ID: 2, Predefined: false, OwnerID: &owner}
	if !owned.VisibleTo(7) {
		t.Errorf("owned category should be visible to its owner")
	}
	if owned.VisibleTo(8) {
		t.Errorf("owned category should not be visible to another user")
	}
}
