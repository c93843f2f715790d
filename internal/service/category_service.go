package service

import "github.com/pocketledger/ledger-backend/internal/domain"

// CategoryService is the read-only Category Registry (C4). Categories are
// seeded out of band; this surface only looks them up.
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) GetByID(id int64) (*domain.Category, error) {
	return s.categoryRepo.GetByID(id)
}

func (s *CategoryService) ListPredefined() ([]*domain.Category, error) {
	return s.categoryRepo.ListPredefined()
}

func (s *CategoryService) ListAvailableTo(ownerID int64) ([]*domain.Category, error) {
	return s.categoryRepo.ListAvailableTo(ownerID)
}

func (s *CategoryService) ListByType(ownerID int64, t domain.CategoryType) ([]*domain.Category, error) {
	return s.categoryRepo.ListByType(ownerID, t)
}

// resolveVisibleCategory loads a category and checks the requesting owner
// may use it (predefined or their own). Used by the Ledger's entry create
// and update paths; projection execution reaches it through CreateEntry,
// while projection create/update does not call it.
func (s *CategoryService) resolveVisibleCategory(ownerID, categoryID int64) (*domain.Category, error) {
	cat, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if !cat.VisibleTo(ownerID) {
		return nil, domain.ErrCategoryNotOwned
	}
	return cat, nil
}
