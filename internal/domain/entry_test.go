package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestEntry(amount string, entryType EntryType) *Entry {
	return &Entry{
		ID:         1,
		OwnerID:    1,
		CategoryID: 1,
		Amount:     decimal.RequireFromString(amount),
		Type:       entryType,
		Date:       date(2026, 1, 15),
	}
}

func TestEntryValidate(t *testing.T) {
	e := newTestEntry("50000", EntryTypeExpense)
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}

	zero := newTestEntry("0", EntryTypeExpense)
	if err := zero.Validate(); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	negative := newTestEntry("-100", EntryTypeExpense)
	if err := negative.Validate(); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}

	badType := newTestEntry("50000", EntryType("TRANSFER"))
	if err := badType.Validate(); err != ErrValidation {
		t.Errorf("expected ErrValidation for bad type, got %v", err)
	}
}

func TestEntryValidateDescriptionTooLong(t *testing.T) {
	e := newTestEntry("50000", EntryTypeIncome)
	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}
	e.Description = string(long)
	if err := e.Validate(); err != ErrValidation {
		t.Errorf("expected ErrValidation for oversized description, got %v", err)
	}
}

func TestSanitizeDescriptionTrimsWhitespace(t *testing.T) {
	got := sanitizeDescription("  groceries  \n")
	if got != "groceries" {
		t.Errorf("sanitizeDescription() = %q, want %q", got, "groceries")
	}
}
