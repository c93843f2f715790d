package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/authz"
	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/websocket"
)

// ProjectionService is the Projection Engine (C7). Execution is always
// user-triggered; nothing here runs on a timer (spec §4.7).
type ProjectionService struct {
	projectionRepo domain.ProjectionRepository
	ledger         *LedgerService
	publisher      websocket.EventPublisher
}

func NewProjectionService(projectionRepo domain.ProjectionRepository, ledger *LedgerService) *ProjectionService {
	return &ProjectionService{projectionRepo: projectionRepo, ledger: ledger, publisher: websocket.NoOpPublisher{}}
}

// SetPublisher wires the realtime event hub.
func (s *ProjectionService) SetPublisher(p websocket.EventPublisher) {
	s.publisher = p
}

// CreateProjectionInput is the service-layer input for CreateProjection.
type CreateProjectionInput struct {
	Name       string
	Amount     decimal.Decimal
	Type       domain.EntryType
	CategoryID int64
	Frequency  domain.Frequency
	StartDate  time.Time
}

func (s *ProjectionService) CreateProjection(ownerID int64, input CreateProjectionInput) (*domain.Projection, error) {
	projection := &domain.Projection{
		OwnerID:    ownerID,
		Name:       input.Name,
		Amount:     input.Amount,
		Type:       input.Type,
		CategoryID: input.CategoryID,
		Frequency:  input.Frequency,
		StartDate:  input.StartDate,
		Active:     true,
	}
	if err := projection.Validate(); err != nil {
		return nil, err
	}
	created, err := s.projectionRepo.Create(projection)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ownerID, websocket.ProjectionCreated(created))
	return created, nil
}

// UpdateProjectionInput is the service-layer input for UpdateProjection.
type UpdateProjectionInput struct {
	Name       string
	Amount     decimal.Decimal
	Type       domain.EntryType
	CategoryID int64
	Frequency  domain.Frequency
	StartDate  time.Time
	Active     bool
}

func (s *ProjectionService) UpdateProjection(principalID int64, isAdmin bool, id int64, input UpdateProjectionInput) (*domain.Projection, error) {
	existing, err := s.projectionRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(existing.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Amount = input.Amount
	existing.Type = input.Type
	existing.CategoryID = input.CategoryID
	existing.Frequency = input.Frequency
	existing.StartDate = input.StartDate
	existing.Active = input.Active
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.projectionRepo.Update(existing.OwnerID, id, existing)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(existing.OwnerID, websocket.ProjectionUpdated(updated))
	return updated, nil
}

// Execute materializes one Entry via Ledger.CreateEntry using today's date
// and the template's amount/type/category, then stamps last_executed
// (spec §4.7).
func (s *ProjectionService) Execute(ctx context.Context, principalID int64, isAdmin bool, projectionID int64, today time.Time) (*domain.Entry, error) {
	projection, err := s.projectionRepo.GetByIDAny(projectionID)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(projection.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	if !projection.Active {
		return nil, domain.ErrStateConflict
	}

	entry, err := s.ledger.CreateEntry(ctx, projection.OwnerID, domain.CreateEntryInput{
		CategoryID: projection.CategoryID,
		Amount:     projection.Amount,
		Type:       projection.Type,
		Date:       today,
	})
	if err != nil {
		return nil, err
	}

	if err := s.projectionRepo.MarkExecuted(projection.ID, today); err != nil {
		return nil, err
	}

	projection.LastExecuted = &today
	s.publisher.Publish(projection.OwnerID, websocket.ProjectionUpdated(projection))
	return entry, nil
}

func (s *ProjectionService) GetByID(principalID int64, isAdmin bool, id int64) (*domain.Projection, error) {
	p, err := s.projectionRepo.GetByIDAny(id)
	if err != nil {
		return nil, err
	}
	if err := authz.Owns(p.OwnerID, principalID, isAdmin); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectionService) ListByOwner(ownerID int64) ([]*domain.Projection, error) {
	return s.projectionRepo.ListByOwner(ownerID)
}

func (s *ProjectionService) Delete(principalID int64, isAdmin bool, id int64) error {
	p, err := s.projectionRepo.GetByIDAny(id)
	if err != nil {
		return err
	}
	if err := authz.Owns(p.OwnerID, principalID, isAdmin); err != nil {
		return err
	}
	if err := s.projectionRepo.Delete(p.OwnerID, id); err != nil {
		return err
	}
	s.publisher.Publish(p.OwnerID, websocket.ProjectionDeleted(p))
	return nil
}
