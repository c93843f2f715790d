package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/authz"
	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/websocket"
)

// LedgerService is the Ledger (C3).
type LedgerService struct {
	pool       *pgxpool.Pool
	entryRepo  domain.EntryRepository
	categories *CategoryService
	budgets    *BudgetService
	publisher  websocket.EventPublisher
}

func NewLedgerService(pool *pgxpool.Pool, entryRepo domain.EntryRepository, categories *CategoryService, budgets *BudgetService) *LedgerService {
	return &LedgerService{pool: pool, entryRepo: entryRepo, categories: categories, budgets: budgets, publisher: websocket.NoOpPublisher{}}
}

// SetPublisher wires the realtime event hub. Left as NoOpPublisher when
// unset, mirroring the source's SetTransactionGroupService pattern of
// optional post-construction wiring.
func (s *LedgerService) SetPublisher(p websocket.EventPublisher) {
	s.publisher = p
}

func (s *LedgerService) validateCategory(ownerID int64, categoryID int64, entryType domain.EntryType) (*domain.Category, error) {
	cat, err := s.categories.resolveVisibleCategory(ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	if !cat.Type.PermitsEntryType(entryType) {
		return nil, domain.ErrCategoryTypeMismatch
	}
	return cat, nil
}

// CreateEntry persists a new ledger row and, on EXPENSE, applies the
// consumption delta to the owning category's budget, all in one
// transaction (spec §4.3, §4.9).
func (s *LedgerService) CreateEntry(ctx context.Context, ownerID int64, input domain.CreateEntryInput) (*domain.Entry, error) {
	cat, err := s.validateCategory(ownerID, input.CategoryID, input.Type)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		OwnerID:     ownerID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Entry
	err = withTx(ctx, s.pool, func(tx interface{}) error {
		var txErr error
		created, txErr = s.entryRepo.CreateTx(tx, entry)
		if txErr != nil {
			return txErr
		}

		if entry.Type == domain.EntryTypeExpense {
			if txErr := s.budgets.AdjustTx(ctx, tx, ownerID, input.CategoryID, entry.Amount); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.CategoryName = cat.Name
	created.CategoryIcon = cat.Icon
	s.publisher.Publish(ownerID, websocket.EntryCreated(created))
	return created, nil
}

// UpdateEntry re-reads the persisted old entry so it can reverse the old
// (category, type) effect in full and apply the new one in full, rather
// than computing a naive new−old delta that breaks on category/type change
// (Design Note §9.1 — the source's bug).
func (s *LedgerService) UpdateEntry(ctx context.Context, ownerID, principalID int64, isAdmin bool, id int64, input domain.UpdateEntryInput) (*domain.Entry, error) {
	old, err := s.entryRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(old.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}

	cat, err := s.validateCategory(old.OwnerID, input.CategoryID, input.Type)
	if err != nil {
		return nil, err
	}

	updated := &domain.Entry{
		OwnerID:     old.OwnerID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	var result *domain.Entry
	err = withTx(ctx, s.pool, func(tx interface{}) error {
		if old.Type == domain.EntryTypeExpense {
			if txErr := s.budgets.AdjustTx(ctx, tx, old.OwnerID, old.CategoryID, old.Amount.Neg()); txErr != nil {
				return txErr
			}
		}
		if updated.Type == domain.EntryTypeExpense {
			if txErr := s.budgets.AdjustTx(ctx, tx, old.OwnerID, updated.CategoryID, updated.Amount); txErr != nil {
				return txErr
			}
		}

		var txErr error
		result, txErr = s.entryRepo.Update(old.OwnerID, id, &domain.UpdateEntryInput{
			CategoryID:  updated.CategoryID,
			Amount:      updated.Amount,
			Type:        updated.Type,
			Description: updated.Description,
			Date:        updated.Date,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	result.CategoryName = cat.Name
	result.CategoryIcon = cat.Icon
	s.publisher.Publish(old.OwnerID, websocket.EntryUpdated(result))
	return result, nil
}

// DeleteEntry reverses the budget delta (if EXPENSE) before deleting the
// row, within one transaction (spec §4.3, Design Note §9.2).
func (s *LedgerService) DeleteEntry(ctx context.Context, principalID int64, isAdmin bool, id int64) error {
	entry, err := s.entryRepo.GetByIDAny(id)
	if err != nil {
		return err
	}
	if err := authz.Owns(entry.OwnerID, principalID, isAdmin); err != nil {
		return err
	}

	if err := withTx(ctx, s.pool, func(tx interface{}) error {
		if entry.Type == domain.EntryTypeExpense {
			if err := s.budgets.AdjustTx(ctx, tx, entry.OwnerID, entry.CategoryID, entry.Amount.Neg()); err != nil {
				return err
			}
		}
		return s.entryRepo.DeleteTx(tx, entry.OwnerID, id)
	}); err != nil {
		return err
	}

	s.publisher.Publish(entry.OwnerID, websocket.EntryDeleted(entry))
	return nil
}

func (s *LedgerService) ListEntries(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	return s.entryRepo.List(ownerID, filters)
}

// ListEntriesPage is ListEntries with a pagination envelope (spec §6
// supplemented feature): it applies the same filters but returns only one
// page of results alongside the total matching count.
func (s *LedgerService) ListEntriesPage(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, int64, error) {
	return s.entryRepo.ListPage(ownerID, filters)
}

// RecentCategories returns the owner's most recently used categories, for
// the entry-creation autocomplete (spec §6 supplemented feature).
func (s *LedgerService) RecentCategories(ownerID int64, limit int) ([]*domain.RecentCategory, error) {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	return s.entryRepo.RecentCategories(ownerID, limit)
}

func (s *LedgerService) Balance(ownerID int64) (decimal.Decimal, error) {
	return s.entryRepo.Balance(ownerID)
}

func (s *LedgerService) Summary(ownerID int64) (*domain.Summary, error) {
	return s.entryRepo.Summary(ownerID)
}

func (s *LedgerService) GetByID(principalID int64, isAdmin bool, id int64) (*domain.Entry, error) {
	entry, err := s.entryRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(entry.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	return entry, nil
}
