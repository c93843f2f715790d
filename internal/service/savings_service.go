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

// SavingsService is the Savings Engine (C6).
type SavingsService struct {
	pool             *pgxpool.Pool
	goalRepo         domain.SavingsGoalRepository
	installmentRepo  domain.InstallmentRepository
	contributionRepo domain.ContributionRepository
	publisher        websocket.EventPublisher
}

func NewSavingsService(pool *pgxpool.Pool, goalRepo domain.SavingsGoalRepository, installmentRepo domain.InstallmentRepository, contributionRepo domain.ContributionRepository) *SavingsService {
	return &SavingsService{pool: pool, goalRepo: goalRepo, installmentRepo: installmentRepo, contributionRepo: contributionRepo, publisher: websocket.NoOpPublisher{}}
}

// SetPublisher wires the realtime event hub.
func (s *SavingsService) SetPublisher(p websocket.EventPublisher) {
	s.publisher = p
}

// CreateGoalInput is the service-layer input for CreateGoal.
type CreateGoalInput struct {
	Name      string
	Target    decimal.Decimal
	StartDate time.Time
	Deadline  *time.Time
	Frequency *domain.Frequency
	Icon      string
	Color     string
}

// CreateGoal rejects a duplicate name per owner and, when both frequency
// and deadline are present, generates the installment plan atomically
// (spec §4.6).
func (s *SavingsService) CreateGoal(ctx context.Context, ownerID int64, input CreateGoalInput) (*domain.SavingsGoal, error) {
	if existing, err := s.goalRepo.GetByName(ownerID, input.Name); err == nil && existing != nil {
		return nil, domain.ErrDuplicateName
	} else if err != nil && err != domain.ErrGoalNotFound {
		return nil, err
	}

	goal := &domain.SavingsGoal{
		PublicID:  uuid.New(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Target:    input.Target,
		Accrued:   decimal.Zero,
		StartDate: input.StartDate,
		Deadline:  input.Deadline,
		Frequency: input.Frequency,
		Icon:      input.Icon,
		Color:     input.Color,
		State:     domain.GoalStateActive,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if input.Frequency == nil || input.Deadline == nil {
		created, err := s.goalRepo.Create(goal)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ownerID, websocket.SavingsGoalCreated(created))
		return created, nil
	}

	var created *domain.SavingsGoal
	err := withTx(ctx, s.pool, func(tx interface{}) error {
		var txErr error
		created, txErr = s.goalRepo.CreateTx(tx, goal)
		if txErr != nil {
			return txErr
		}

		installments := buildInstallmentPlan(created.ID, created.Target, *input.Frequency, input.StartDate, *input.Deadline)
		_, txErr = s.installmentRepo.CreateBatchTx(tx, installments)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ownerID, websocket.SavingsGoalCreated(created))
	return created, nil
}

// buildInstallmentPlan computes the installment schedule: steps from start
// by freq until strictly past deadline, target divided across the steps
// with ceiling rounding so installments collectively cover the target
// (spec §4.6). The rounding remainder is folded into the last installment.
func buildInstallmentPlan(goalID int64, target decimal.Decimal, freq domain.Frequency, start, deadline time.Time) []*domain.Installment {
	dates := freq.StepsUntil(start, deadline)
	if len(dates) == 0 {
		return nil
	}

	n := decimal.NewFromInt(int64(len(dates)))
	per := target.DivRound(n, 0)
	if per.Mul(n).LessThan(target) {
		per = per.Add(decimal.NewFromInt(1))
	}

	installments := make([]*domain.Installment, len(dates))
	var running decimal.Decimal
	for i, d := range dates {
		amount := per
		if i == len(dates)-1 {
			amount = target.Sub(running)
		}
		running = running.Add(amount)
		installments[i] = &domain.Installment{
			GoalID:         goalID,
			Sequence:       int32(i + 1),
			ScheduledDate:  d,
			ExpectedAmount: amount,
			State:          domain.InstallmentStatePending,
		}
	}
	return installments
}

// UpdateGoalInput is the service-layer input for UpdateGoal. Mutable
// fields: name, target, deadline, frequency, icon, color (spec §4.6). The
// installment plan itself is not regenerated; it continues rebalancing off
// the new target on the next contribution (§4.6 step 5).
type UpdateGoalInput struct {
	Name      string
	Target    decimal.Decimal
	Deadline  *time.Time
	Frequency *domain.Frequency
	Icon      string
	Color     string
}

func (s *SavingsService) UpdateGoal(principalID int64, isAdmin bool, id int64, input UpdateGoalInput) (*domain.SavingsGoal, error) {
	existing, err := s.goalRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(existing.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Target = input.Target
	existing.Deadline = input.Deadline
	existing.Frequency = input.Frequency
	existing.Icon = input.Icon
	existing.Color = input.Color
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	existing.RecomputeState()

	updated, err := s.goalRepo.Update(existing.OwnerID, id, existing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(existing.OwnerID, websocket.SavingsGoalUpdated(updated))
	return updated, nil
}

// ContributeInput is the service-layer input for Contribute.
type ContributeInput struct {
	Amount        decimal.Decimal
	Description   string
	Timestamp     time.Time
	InstallmentID *int64
}

// Contribute applies a contribution, optionally resolving one installment,
// then recomputes goal progress and rebalances remaining installments, all
// in one transaction (spec §4.6 steps 1-5).
func (s *SavingsService) Contribute(ctx context.Context, principalID int64, isAdmin bool, goalID int64, input ContributeInput) (*domain.Contribution, error) {
	goal, err := s.goalRepo.GetByIDAny(goalID)
	if err != nil {
		return nil, err
	}
	return s.contributeToGoal(ctx, principalID, isAdmin, goal, input)
}

func (s *SavingsService) contributeToGoal(ctx context.Context, principalID int64, isAdmin bool, goal *domain.SavingsGoal, input ContributeInput) (*domain.Contribution, error) {
	if err := authz.Owns(goal.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	if !goal.Contributable() {
		return nil, domain.ErrGoalNotContributable
	}

	contribution := &domain.Contribution{
		GoalID:        goal.ID,
		OwnerID:       goal.OwnerID,
		Amount:        input.Amount,
		Description:   input.Description,
		Timestamp:     input.Timestamp,
		InstallmentID: input.InstallmentID,
	}
	if err := contribution.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Contribution
	var locked *domain.SavingsGoal
	err := withTx(ctx, s.pool, func(tx interface{}) error {
		var txErr error
		locked, txErr = s.goalRepo.GetByIDForUpdateTx(tx, goal.ID)
		if txErr != nil {
			return txErr
		}

		created, txErr = s.contributionRepo.CreateTx(tx, contribution)
		if txErr != nil {
			return txErr
		}

		if input.InstallmentID != nil {
			inst, txErr := s.installmentRepo.GetByIDTx(tx, goal.ID, *input.InstallmentID)
			if txErr != nil {
				return txErr
			}
			if inst.GoalID != goal.ID {
				return domain.ErrInstallmentNotInGoal
			}
			if txErr := s.installmentRepo.MarkPaidTx(tx, inst.ID, contribution.Amount, created.ID); txErr != nil {
				return txErr
			}
		}

		s.recomputeProgress(locked, contribution.Amount)
		if txErr := s.goalRepo.UpdateProgressTx(tx, locked.ID, locked.Accrued, locked.State); txErr != nil {
			return txErr
		}

		return s.rebalancePendingTx(tx, locked)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(locked.OwnerID, websocket.SavingsGoalUpdated(locked))
	return created, nil
}

// recomputeProgress applies delta to goal.Accrued and reapplies the state
// invariant (spec §4.6 step 4).
func (s *SavingsService) recomputeProgress(goal *domain.SavingsGoal, delta decimal.Decimal) {
	goal.Accrued = goal.Accrued.Add(delta)
	if goal.Accrued.LessThan(decimal.Zero) {
		goal.Accrued = decimal.Zero
	}
	goal.RecomputeState()
}

// rebalancePendingTx spreads the remaining target across PENDING
// installments, ceiling-rounded (spec §4.6 step 5).
func (s *SavingsService) rebalancePendingTx(tx interface{}, goal *domain.SavingsGoal) error {
	pending, err := s.installmentRepo.ListPendingByGoalTx(tx, goal.ID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	remaining := goal.Target.Sub(goal.Accrued)
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}

	n := decimal.NewFromInt(int64(len(pending)))
	per := remaining.DivRound(n, 0)
	if per.Mul(n).LessThan(remaining) {
		per = per.Add(decimal.NewFromInt(1))
	}

	for _, inst := range pending {
		if err := s.installmentRepo.RebalancePendingTx(tx, inst.ID, per); err != nil {
			return err
		}
	}
	return nil
}

// DeleteContribution unpaids the linked installment (if any), reverses the
// progress delta, rebalances, then deletes the contribution row (spec
// §4.6 "Contribution deletion").
func (s *SavingsService) DeleteContribution(ctx context.Context, principalID int64, isAdmin bool, contributionID int64) error {
	contribution, err := s.contributionRepo.GetByIDAny(contributionID)
	if err != nil {
		return err
	}
	if err := authz.Owns(contribution.OwnerID, principalID, isAdmin); err != nil {
		return err
	}

	var goal *domain.SavingsGoal
	err = withTx(ctx, s.pool, func(tx interface{}) error {
		var txErr error
		goal, txErr = s.goalRepo.GetByIDForUpdateTx(tx, contribution.GoalID)
		if txErr != nil {
			return txErr
		}

		if contribution.InstallmentID != nil {
			if txErr := s.installmentRepo.MarkUnpaidTx(tx, *contribution.InstallmentID); txErr != nil {
				return txErr
			}
		}

		s.recomputeProgress(goal, contribution.Amount.Neg())
		if txErr := s.goalRepo.UpdateProgressTx(tx, goal.ID, goal.Accrued, goal.State); txErr != nil {
			return txErr
		}
		if txErr := s.rebalancePendingTx(tx, goal); txErr != nil {
			return txErr
		}

		return s.contributionRepo.DeleteTx(tx, contributionID)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(goal.OwnerID, websocket.SavingsGoalUpdated(goal))
	return nil
}

// UpdateContributionInput carries the only two mutable fields of a
// contribution (spec §4.6 "Contribution update").
type UpdateContributionInput struct {
	Amount      decimal.Decimal
	Description string
}

func (s *SavingsService) UpdateContribution(ctx context.Context, principalID int64, isAdmin bool, contributionID int64, input UpdateContributionInput) (*domain.Contribution, error) {
	contribution, err := s.contributionRepo.GetByIDAny(contributionID)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(contribution.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	delta := input.Amount.Sub(contribution.Amount)

	var updated *domain.Contribution
	var goal *domain.SavingsGoal
	err = withTx(ctx, s.pool, func(tx interface{}) error {
		var txErr error
		goal, txErr = s.goalRepo.GetByIDForUpdateTx(tx, contribution.GoalID)
		if txErr != nil {
			return txErr
		}

		updated, txErr = s.contributionRepo.UpdateTx(tx, contributionID, input.Amount, input.Description)
		if txErr != nil {
			return txErr
		}

		s.recomputeProgress(goal, delta)
		if txErr := s.goalRepo.UpdateProgressTx(tx, goal.ID, goal.Accrued, goal.State); txErr != nil {
			return txErr
		}
		return s.rebalancePendingTx(tx, goal)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(goal.OwnerID, websocket.SavingsGoalUpdated(goal))
	return updated, nil
}

// DeleteGoal deletes all contributions, all installments, then the goal
// row, in one transaction (spec §4.6 "Goal deletion").
func (s *SavingsService) DeleteGoal(ctx context.Context, principalID int64, isAdmin bool, goalID int64) error {
	goal, err := s.goalRepo.GetByIDAny(goalID)
	if err != nil {
		return err
	}
	if err := authz.Owns(goal.OwnerID, principalID, isAdmin); err != nil {
		return err
	}

	if err := withTx(ctx, s.pool, func(tx interface{}) error {
		contributions, txErr := s.contributionRepo.ListByGoal(goal.ID)
		if txErr != nil {
			return txErr
		}
		for _, contrib := range contributions {
			if txErr := s.contributionRepo.DeleteTx(tx, contrib.ID); txErr != nil {
				return txErr
			}
		}
		if txErr := s.installmentRepo.DeleteByGoalTx(tx, goal.ID); txErr != nil {
			return txErr
		}
		return s.goalRepo.DeleteTx(tx, goal.OwnerID, goal.ID)
	}); err != nil {
		return err
	}

	s.publisher.Publish(goal.OwnerID, websocket.SavingsGoalDeleted(goal))
	return nil
}

func (s *SavingsService) GetByID(principalID int64, isAdmin bool, id int64) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(goal.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *SavingsService) ListByOwner(ownerID int64) ([]*domain.SavingsGoal, error) {
	return s.goalRepo.ListByOwner(ownerID)
}

func (s *SavingsService) ListInstallments(goalID int64) ([]*domain.Installment, error) {
	return s.installmentRepo.ListByGoal(goalID)
}

func (s *SavingsService) ListContributions(goalID int64) ([]*domain.Contribution, error) {
	return s.contributionRepo.ListByGoal(goalID)
}
