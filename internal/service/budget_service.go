package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/authz"
	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/websocket"
)

// BudgetService is the Budget Engine (C5).
type BudgetService struct {
	pool       *pgxpool.Pool
	budgetRepo domain.BudgetRepository
	entryRepo  domain.EntryRepository
	publisher  websocket.EventPublisher
}

func NewBudgetService(pool *pgxpool.Pool, budgetRepo domain.BudgetRepository, entryRepo domain.EntryRepository) *BudgetService {
	return &BudgetService{pool: pool, budgetRepo: budgetRepo, entryRepo: entryRepo, publisher: websocket.NoOpPublisher{}}
}

// SetPublisher wires the realtime event hub.
func (s *BudgetService) SetPublisher(p websocket.EventPublisher) {
	s.publisher = p
}

// CreateBudgetInput is the service-layer input for CreateBudget.
type CreateBudgetInput struct {
	CategoryID int64
	Cap        decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	Frequency  domain.Frequency
	AutoRenew  bool
}

// CreateBudget rejects a duplicate ACTIVE budget for the category, seeds
// consumed from existing EXPENSE entries in the window, and starts OVER if
// that seed already meets or exceeds cap (spec §4.5).
func (s *BudgetService) CreateBudget(ownerID int64, input CreateBudgetInput) (*domain.Budget, error) {
	existing, err := s.budgetRepo.GetActiveForCategory(ownerID, input.CategoryID)
	if err != nil && err != domain.ErrBudgetNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateActiveBudget
	}

	consumed, err := s.entryRepo.SumExpensesInWindow(ownerID, input.CategoryID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	budget := &domain.Budget{
		PublicID:   uuid.New(),
		OwnerID:    ownerID,
		CategoryID: input.CategoryID,
		Cap:        input.Cap,
		Consumed:   consumed,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Frequency:  input.Frequency,
		AutoRenew:  input.AutoRenew,
		State:      domain.BudgetStateActive,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	budget.RecomputeState()

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ownerID, websocket.BudgetCreated(created))
	return created, nil
}

// UpdateBudgetInput is the service-layer input for UpdateBudget. Mutable
// fields: cap, window, frequency, auto-renew (spec §4.5).
type UpdateBudgetInput struct {
	Cap       decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	Frequency domain.Frequency
	AutoRenew bool
}

func (s *BudgetService) UpdateBudget(ownerID int64, principalID int64, isAdmin bool, publicID uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	existing, err := s.budgetRepo.GetByIDAny(publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(existing.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}

	existing.Cap = input.Cap
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.Frequency = input.Frequency
	existing.AutoRenew = input.AutoRenew
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	existing.RecomputeState()

	updated, err := s.budgetRepo.Update(existing.OwnerID, publicID, existing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(existing.OwnerID, websocket.BudgetUpdated(updated))
	return updated, nil
}

func (s *BudgetService) GetByID(principalID int64, isAdmin bool, publicID uuid.UUID) (*domain.Budget, error) {
	b, err := s.budgetRepo.GetByIDAny(publicID)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(b.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BudgetService) Deactivate(principalID int64, isAdmin bool, publicID uuid.UUID) error {
	b, err := s.budgetRepo.GetByIDAny(publicID)
	if err != nil {
		return err
	}
	if err := authz.Owns(b.OwnerID, principalID, isAdmin); err != nil {
		return err
	}
	if err := s.budgetRepo.Deactivate(b.OwnerID, publicID); err != nil {
		return err
	}
	b.State = domain.BudgetStateInactive
	s.publisher.Publish(b.OwnerID, websocket.BudgetUpdated(b))
	return nil
}

func (s *BudgetService) ListByOwner(ownerID int64) ([]*domain.Budget, error) {
	return s.budgetRepo.ListByOwner(ownerID)
}

func (s *BudgetService) ListCurrent(ownerID int64, today time.Time) ([]*domain.Budget, error) {
	return s.budgetRepo.ListCurrent(ownerID, today)
}

func (s *BudgetService) ListNearLimit(ownerID int64, threshold decimal.Decimal) ([]*domain.Budget, error) {
	if threshold.IsZero() {
		threshold = domain.DefaultNearLimitThreshold
	}
	return s.budgetRepo.ListNearLimit(ownerID, threshold)
}

func (s *BudgetService) ListOver(ownerID int64) ([]*domain.Budget, error) {
	return s.budgetRepo.ListOver(ownerID)
}

// SyncConsumption recomputes consumed for every current budget from the
// ledger's EXPENSE entries in its window, correcting any drift between the
// stored running total and the entries that actually back it (spec §6
// "sync-consumption"; idempotent per spec §8).
func (s *BudgetService) SyncConsumption(ctx context.Context, ownerID int64) (int, error) {
	budgets, err := s.budgetRepo.ListCurrent(ownerID, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	var synced int
	err = withTx(ctx, s.pool, func(tx interface{}) error {
		for _, b := range budgets {
			consumed, txErr := s.entryRepo.SumExpensesInWindow(ownerID, b.CategoryID, b.StartDate, b.EndDate)
			if txErr != nil {
				return txErr
			}
			b.Consumed = consumed
			b.RecomputeState()
			if txErr := s.budgetRepo.UpdateConsumedTx(tx, b.ID, b.Consumed, b.State); txErr != nil {
				return txErr
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(ownerID, websocket.BudgetSynced(synced))
	return synced, nil
}

// AdjustTx is the consumption-delta operation (spec §4.5): finds the single
// ACTIVE budget for (owner, category) under a row lock and applies delta,
// clamping consumed at zero. No-op if no ACTIVE budget exists. Must run
// inside the same transaction as the entry mutation that triggered it
// (C10), so tx is a live *pgx.Tx passed down from the caller.
func (s *BudgetService) AdjustTx(ctx context.Context, tx interface{}, ownerID, categoryID int64, delta decimal.Decimal) error {
	budget, err := s.budgetRepo.GetActiveForCategoryForUpdateTx(tx, ownerID, categoryID)
	if err != nil {
		if err == domain.ErrBudgetNotFound {
			return nil
		}
		return err
	}

	consumed := budget.Consumed.Add(delta)
	if consumed.LessThan(decimal.Zero) {
		consumed = decimal.Zero
	}
	budget.Consumed = consumed
	budget.RecomputeState()

	return s.budgetRepo.UpdateConsumedTx(tx, budget.ID, budget.Consumed, budget.State)
}
