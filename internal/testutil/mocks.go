package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository.
type MockUserRepository struct {
	Users             map[int64]*domain.User
	ByExternalSubject map[string]*domain.User
	ByEmail           map[string]*domain.User
	NextID            int64
	CreateFn          func(user *domain.User) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:             make(map[int64]*domain.User),
		ByExternalSubject: make(map[string]*domain.User),
		ByEmail:           make(map[string]*domain.User),
		NextID:            1,
	}
}

func (m *MockUserRepository) GetByID(id int64) (*domain.User, error) {
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByExternalSubject(subject string) (*domain.User, error) {
	if u, ok := m.ByExternalSubject[subject]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if u, ok := m.ByEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	if user.ExternalSubject != nil {
		m.ByExternalSubject[*user.ExternalSubject] = user
	}
	m.ByEmail[user.Email] = user
	return user, nil
}

func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.Users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.Users[user.ID] = user
	if user.ExternalSubject != nil {
		m.ByExternalSubject[*user.ExternalSubject] = user
	}
	m.ByEmail[user.Email] = user
	return user, nil
}

func (m *MockUserRepository) Deactivate(id int64) error {
	u, ok := m.Users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = false
	return nil
}

// AddUser adds a user to the mock repository (helper for tests).
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == 0 {
		user.ID = m.NextID
		m.NextID++
	}
	m.Users[user.ID] = user
	if user.ExternalSubject != nil {
		m.ByExternalSubject[*user.ExternalSubject] = user
	}
	m.ByEmail[user.Email] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository.
type MockCategoryRepository struct {
	Categories map[int64]*domain.Category
	NextID     int64
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int64]*domain.Category),
		NextID:     1,
	}
}

func (m *MockCategoryRepository) GetByID(id int64) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) ListPredefined() ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.Predefined {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCategoryRepository) ListAvailableTo(ownerID int64) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.VisibleTo(ownerID) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCategoryRepository) ListByType(ownerID int64, t domain.CategoryType) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.VisibleTo(ownerID) && c.Type == t {
			result = append(result, c)
		}
	}
	return result, nil
}

// AddCategory adds a category to the mock repository (helper for tests).
func (m *MockCategoryRepository) AddCategory(c *domain.Category) {
	if c.ID == 0 {
		c.ID = m.NextID
		m.NextID++
	}
	m.Categories[c.ID] = c
}

// MockEntryRepository is a mock implementation of domain.EntryRepository.
type MockEntryRepository struct {
	Entries map[int64]*domain.Entry
	NextID  int64
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		Entries: make(map[int64]*domain.Entry),
		NextID:  1,
	}
}

func (m *MockEntryRepository) create(entry *domain.Entry) (*domain.Entry, error) {
	entry.ID = m.NextID
	m.NextID++
	m.Entries[entry.ID] = entry
	return entry, nil
}

func (m *MockEntryRepository) Create(entry *domain.Entry) (*domain.Entry, error) {
	return m.create(entry)
}

func (m *MockEntryRepository) CreateTx(tx interface{}, entry *domain.Entry) (*domain.Entry, error) {
	return m.create(entry)
}

func (m *MockEntryRepository) GetByID(ownerID, id int64) (*domain.Entry, error) {
	e, ok := m.Entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func (m *MockEntryRepository) GetByIDAny(id int64) (*domain.Entry, error) {
	if e, ok := m.Entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) Update(ownerID, id int64, data *domain.UpdateEntryInput) (*domain.Entry, error) {
	e, ok := m.Entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrEntryNotFound
	}
	e.CategoryID = data.CategoryID
	e.Amount = data.Amount
	e.Type = data.Type
	e.Description = data.Description
	e.Date = data.Date
	return e, nil
}

func (m *MockEntryRepository) delete(ownerID, id int64) error {
	e, ok := m.Entries[id]
	if !ok || e.OwnerID != ownerID {
		return domain.ErrEntryNotFound
	}
	delete(m.Entries, id)
	return nil
}

func (m *MockEntryRepository) Delete(ownerID, id int64) error {
	return m.delete(ownerID, id)
}

func (m *MockEntryRepository) DeleteTx(tx interface{}, ownerID, id int64) error {
	return m.delete(ownerID, id)
}

func (m *MockEntryRepository) List(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	var result []*domain.Entry
	for _, e := range m.Entries {
		if e.OwnerID != ownerID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && e.Type != *filters.Type {
				continue
			}
			if filters.CategoryID != nil && e.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *MockEntryRepository) ListPage(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, int64, error) {
	all, err := m.List(ownerID, filters)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))

	page, pageSize := domain.DefaultPageSize, domain.DefaultPageSize
	if filters != nil && filters.Page > 0 {
		page = filters.Page
	} else {
		page = 1
	}
	if filters != nil && filters.PageSize > 0 {
		pageSize = filters.PageSize
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
	}

	start := (page - 1) * pageSize
	if start >= len(all) {
		return []*domain.Entry{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *MockEntryRepository) RecentCategories(ownerID int64, limit int) ([]*domain.RecentCategory, error) {
	latest := make(map[int64]*domain.RecentCategory)
	for _, e := range m.Entries {
		if e.OwnerID != ownerID {
			continue
		}
		if existing, ok := latest[e.CategoryID]; !ok || e.Date.After(existing.LastUsedAt) {
			latest[e.CategoryID] = &domain.RecentCategory{
				CategoryID: e.CategoryID,
				Name:       e.CategoryName,
				Icon:       e.CategoryIcon,
				LastUsedAt: e.Date,
			}
		}
	}
	out := make([]*domain.RecentCategory, 0, len(latest))
	for _, rc := range latest {
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsedAt.After(out[j].LastUsedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockEntryRepository) Balance(ownerID int64) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, e := range m.Entries {
		if e.OwnerID != ownerID {
			continue
		}
		if e.Type == domain.EntryTypeIncome {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

func (m *MockEntryRepository) Summary(ownerID int64) (*domain.Summary, error) {
	summary := &domain.Summary{}
	for _, e := range m.Entries {
		if e.OwnerID != ownerID {
			continue
		}
		summary.Count++
		if e.Type == domain.EntryTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(e.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(e.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

func (m *MockEntryRepository) SumExpensesInWindow(ownerID, categoryID int64, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Entries {
		if e.OwnerID != ownerID || e.CategoryID != categoryID || e.Type != domain.EntryTypeExpense {
			continue
		}
		if (e.Date.Equal(start) || e.Date.After(start)) && (e.Date.Equal(end) || e.Date.Before(end)) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// AddEntry adds an entry to the mock repository (helper for tests).
func (m *MockEntryRepository) AddEntry(e *domain.Entry) {
	if e.ID == 0 {
		e.ID = m.NextID
		m.NextID++
	}
	m.Entries[e.ID] = e
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository.
type MockBudgetRepository struct {
	Budgets  map[int64]*domain.Budget
	ByPublic map[uuid.UUID]*domain.Budget
	NextID   int64
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets:  make(map[int64]*domain.Budget),
		ByPublic: make(map[uuid.UUID]*domain.Budget),
		NextID:   1,
	}
}

func (m *MockBudgetRepository) create(b *domain.Budget) (*domain.Budget, error) {
	for _, existing := range m.Budgets {
		if existing.OwnerID == b.OwnerID && existing.CategoryID == b.CategoryID && existing.State != domain.BudgetStateInactive {
			return nil, domain.ErrDuplicateActiveBudget
		}
	}
	b.ID = m.NextID
	m.NextID++
	if b.PublicID == uuid.Nil {
		b.PublicID = uuid.New()
	}
	m.Budgets[b.ID] = b
	m.ByPublic[b.PublicID] = b
	return b, nil
}

func (m *MockBudgetRepository) Create(b *domain.Budget) (*domain.Budget, error) {
	return m.create(b)
}

func (m *MockBudgetRepository) CreateTx(tx interface{}, b *domain.Budget) (*domain.Budget, error) {
	return m.create(b)
}

func (m *MockBudgetRepository) GetByID(ownerID int64, publicID uuid.UUID) (*domain.Budget, error) {
	b, ok := m.ByPublic[publicID]
	if !ok || b.OwnerID != ownerID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

func (m *MockBudgetRepository) GetByIDAny(publicID uuid.UUID) (*domain.Budget, error) {
	if b, ok := m.ByPublic[publicID]; ok {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *MockBudgetRepository) GetActiveForCategory(ownerID, categoryID int64) (*domain.Budget, error) {
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID && b.CategoryID == categoryID && b.State != domain.BudgetStateInactive {
			return b, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *MockBudgetRepository) GetActiveForCategoryForUpdateTx(tx interface{}, ownerID, categoryID int64) (*domain.Budget, error) {
	return m.GetActiveForCategory(ownerID, categoryID)
}

func (m *MockBudgetRepository) Update(ownerID int64, publicID uuid.UUID, budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.ByPublic[publicID]
	if !ok || existing.OwnerID != ownerID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.ID = existing.ID
	budget.PublicID = existing.PublicID
	budget.OwnerID = existing.OwnerID
	m.Budgets[existing.ID] = budget
	m.ByPublic[publicID] = budget
	return budget, nil
}

func (m *MockBudgetRepository) UpdateConsumedTx(tx interface{}, id int64, consumed decimal.Decimal, state domain.BudgetState) error {
	b, ok := m.Budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.Consumed = consumed
	b.State = state
	return nil
}

func (m *MockBudgetRepository) deactivate(id int64) error {
	b, ok := m.Budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.State = domain.BudgetStateInactive
	return nil
}

func (m *MockBudgetRepository) Deactivate(ownerID int64, publicID uuid.UUID) error {
	b, ok := m.ByPublic[publicID]
	if !ok || b.OwnerID != ownerID {
		return domain.ErrBudgetNotFound
	}
	return m.deactivate(b.ID)
}

func (m *MockBudgetRepository) DeactivateTx(tx interface{}, id int64) error {
	return m.deactivate(id)
}

func (m *MockBudgetRepository) ListByOwner(ownerID int64) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBudgetRepository) ListCurrent(ownerID int64, today time.Time) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.OwnerID != ownerID || b.State == domain.BudgetStateInactive {
			continue
		}
		if (today.Equal(b.StartDate) || today.After(b.StartDate)) && (today.Equal(b.EndDate) || today.Before(b.EndDate)) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBudgetRepository) ListNearLimit(ownerID int64, threshold decimal.Decimal) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID && b.State != domain.BudgetStateInactive && b.NearLimit(threshold) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBudgetRepository) ListOver(ownerID int64) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.OwnerID == ownerID && b.State == domain.BudgetStateOver {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBudgetRepository) ListPendingProcessing(date time.Time) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, b := range m.Budgets {
		if b.State != domain.BudgetStateInactive && b.EndDate.Before(date) {
			result = append(result, b)
		}
	}
	return result, nil
}

// AddBudget adds a budget to the mock repository (helper for tests).
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) {
	if b.ID == 0 {
		b.ID = m.NextID
		m.NextID++
	}
	if b.PublicID == uuid.Nil {
		b.PublicID = uuid.New()
	}
	m.Budgets[b.ID] = b
	m.ByPublic[b.PublicID] = b
}

// MockSavingsGoalRepository is a mock implementation of domain.SavingsGoalRepository.
type MockSavingsGoalRepository struct {
	Goals  map[int64]*domain.SavingsGoal
	NextID int64
}

func NewMockSavingsGoalRepository() *MockSavingsGoalRepository {
	return &MockSavingsGoalRepository{
		Goals:  make(map[int64]*domain.SavingsGoal),
		NextID: 1,
	}
}

func (m *MockSavingsGoalRepository) create(g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	g.ID = m.NextID
	m.NextID++
	m.Goals[g.ID] = g
	return g, nil
}

func (m *MockSavingsGoalRepository) Create(g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	return m.create(g)
}

func (m *MockSavingsGoalRepository) CreateTx(tx interface{}, g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	return m.create(g)
}

func (m *MockSavingsGoalRepository) GetByID(ownerID int64, id int64) (*domain.SavingsGoal, error) {
	g, ok := m.Goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (m *MockSavingsGoalRepository) GetByIDAny(id int64) (*domain.SavingsGoal, error) {
	if g, ok := m.Goals[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGoalNotFound
}

func (m *MockSavingsGoalRepository) GetByIDForUpdateTx(tx interface{}, id int64) (*domain.SavingsGoal, error) {
	return m.GetByIDAny(id)
}

func (m *MockSavingsGoalRepository) GetByName(ownerID int64, name string) (*domain.SavingsGoal, error) {
	for _, g := range m.Goals {
		if g.OwnerID == ownerID && g.Name == name {
			return g, nil
		}
	}
	return nil, domain.ErrGoalNotFound
}

func (m *MockSavingsGoalRepository) Update(ownerID int64, id int64, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	existing, ok := m.Goals[id]
	if !ok || existing.OwnerID != ownerID {
		return nil, domain.ErrGoalNotFound
	}
	goal.ID = existing.ID
	goal.PublicID = existing.PublicID
	goal.OwnerID = existing.OwnerID
	m.Goals[id] = goal
	return goal, nil
}

func (m *MockSavingsGoalRepository) UpdateProgressTx(tx interface{}, id int64, accrued decimal.Decimal, state domain.GoalState) error {
	g, ok := m.Goals[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	g.Accrued = accrued
	g.State = state
	return nil
}

func (m *MockSavingsGoalRepository) ListByOwner(ownerID int64) ([]*domain.SavingsGoal, error) {
	var result []*domain.SavingsGoal
	for _, g := range m.Goals {
		if g.OwnerID == ownerID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *MockSavingsGoalRepository) delete(ownerID, id int64) error {
	g, ok := m.Goals[id]
	if !ok || g.OwnerID != ownerID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

func (m *MockSavingsGoalRepository) Delete(ownerID int64, id int64) error {
	return m.delete(ownerID, id)
}

func (m *MockSavingsGoalRepository) DeleteTx(tx interface{}, ownerID int64, id int64) error {
	return m.delete(ownerID, id)
}

// AddGoal adds a savings goal to the mock repository (helper for tests).
func (m *MockSavingsGoalRepository) AddGoal(g *domain.SavingsGoal) {
	if g.ID == 0 {
		g.ID = m.NextID
		m.NextID++
	}
	m.Goals[g.ID] = g
}

// MockInstallmentRepository is a mock implementation of domain.InstallmentRepository.
type MockInstallmentRepository struct {
	Installments map[int64]*domain.Installment
	NextID       int64
}

func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{
		Installments: make(map[int64]*domain.Installment),
		NextID:       1,
	}
}

func (m *MockInstallmentRepository) CreateBatchTx(tx interface{}, installments []*domain.Installment) ([]*domain.Installment, error) {
	for _, inst := range installments {
		inst.ID = m.NextID
		m.NextID++
		m.Installments[inst.ID] = inst
	}
	return installments, nil
}

func (m *MockInstallmentRepository) getByID(goalID, id int64) (*domain.Installment, error) {
	inst, ok := m.Installments[id]
	if !ok || inst.GoalID != goalID {
		return nil, domain.ErrInstallmentNotFound
	}
	return inst, nil
}

func (m *MockInstallmentRepository) GetByID(goalID, id int64) (*domain.Installment, error) {
	return m.getByID(goalID, id)
}

func (m *MockInstallmentRepository) GetByIDTx(tx interface{}, goalID, id int64) (*domain.Installment, error) {
	return m.getByID(goalID, id)
}

func (m *MockInstallmentRepository) ListByGoal(goalID int64) ([]*domain.Installment, error) {
	var result []*domain.Installment
	for _, inst := range m.Installments {
		if inst.GoalID == goalID {
			result = append(result, inst)
		}
	}
	return result, nil
}

func (m *MockInstallmentRepository) ListPendingByGoalTx(tx interface{}, goalID int64) ([]*domain.Installment, error) {
	var result []*domain.Installment
	for _, inst := range m.Installments {
		if inst.GoalID == goalID && inst.State == domain.InstallmentStatePending {
			result = append(result, inst)
		}
	}
	return result, nil
}

func (m *MockInstallmentRepository) MarkPaidTx(tx interface{}, id int64, amount decimal.Decimal, contributionID int64) error {
	inst, ok := m.Installments[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	inst.State = domain.InstallmentStatePaid
	inst.ExpectedAmount = amount
	inst.ContributionID = &contributionID
	return nil
}

func (m *MockInstallmentRepository) MarkUnpaidTx(tx interface{}, id int64) error {
	inst, ok := m.Installments[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	inst.State = domain.InstallmentStatePending
	inst.ContributionID = nil
	return nil
}

func (m *MockInstallmentRepository) RebalancePendingTx(tx interface{}, id int64, expectedAmount decimal.Decimal) error {
	inst, ok := m.Installments[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	inst.ExpectedAmount = expectedAmount
	return nil
}

func (m *MockInstallmentRepository) DeleteByGoalTx(tx interface{}, goalID int64) error {
	for id, inst := range m.Installments {
		if inst.GoalID == goalID {
			delete(m.Installments, id)
		}
	}
	return nil
}

// AddInstallment adds an installment to the mock repository (helper for tests).
func (m *MockInstallmentRepository) AddInstallment(inst *domain.Installment) {
	if inst.ID == 0 {
		inst.ID = m.NextID
		m.NextID++
	}
	m.Installments[inst.ID] = inst
}

// MockContributionRepository is a mock implementation of domain.ContributionRepository.
type MockContributionRepository struct {
	Contributions map[int64]*domain.Contribution
	NextID        int64
}

func NewMockContributionRepository() *MockContributionRepository {
	return &MockContributionRepository{
		Contributions: make(map[int64]*domain.Contribution),
		NextID:        1,
	}
}

func (m *MockContributionRepository) CreateTx(tx interface{}, c *domain.Contribution) (*domain.Contribution, error) {
	c.ID = m.NextID
	m.NextID++
	m.Contributions[c.ID] = c
	return c, nil
}

func (m *MockContributionRepository) GetByID(ownerID, id int64) (*domain.Contribution, error) {
	c, ok := m.Contributions[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrContributionNotFound
	}
	return c, nil
}

func (m *MockContributionRepository) GetByIDAny(id int64) (*domain.Contribution, error) {
	if c, ok := m.Contributions[id]; ok {
		return c, nil
	}
	return nil, domain.ErrContributionNotFound
}

func (m *MockContributionRepository) UpdateTx(tx interface{}, id int64, amount decimal.Decimal, description string) (*domain.Contribution, error) {
	c, ok := m.Contributions[id]
	if !ok {
		return nil, domain.ErrContributionNotFound
	}
	c.Amount = amount
	c.Description = description
	return c, nil
}

func (m *MockContributionRepository) DeleteTx(tx interface{}, id int64) error {
	if _, ok := m.Contributions[id]; !ok {
		return domain.ErrContributionNotFound
	}
	delete(m.Contributions, id)
	return nil
}

func (m *MockContributionRepository) ListByGoal(goalID int64) ([]*domain.Contribution, error) {
	var result []*domain.Contribution
	for _, c := range m.Contributions {
		if c.GoalID == goalID {
			result = append(result, c)
		}
	}
	return result, nil
}

// AddContribution adds a contribution to the mock repository (helper for tests).
func (m *MockContributionRepository) AddContribution(c *domain.Contribution) {
	if c.ID == 0 {
		c.ID = m.NextID
		m.NextID++
	}
	m.Contributions[c.ID] = c
}

// MockProjectionRepository is a mock implementation of domain.ProjectionRepository.
type MockProjectionRepository struct {
	Projections map[int64]*domain.Projection
	NextID      int64
}

func NewMockProjectionRepository() *MockProjectionRepository {
	return &MockProjectionRepository{
		Projections: make(map[int64]*domain.Projection),
		NextID:      1,
	}
}

func (m *MockProjectionRepository) Create(p *domain.Projection) (*domain.Projection, error) {
	p.ID = m.NextID
	m.NextID++
	m.Projections[p.ID] = p
	return p, nil
}

func (m *MockProjectionRepository) GetByID(ownerID, id int64) (*domain.Projection, error) {
	p, ok := m.Projections[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrProjectionNotFound
	}
	return p, nil
}

func (m *MockProjectionRepository) GetByIDAny(id int64) (*domain.Projection, error) {
	if p, ok := m.Projections[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProjectionNotFound
}

func (m *MockProjectionRepository) Update(ownerID, id int64, projection *domain.Projection) (*domain.Projection, error) {
	existing, ok := m.Projections[id]
	if !ok || existing.OwnerID != ownerID {
		return nil, domain.ErrProjectionNotFound
	}
	projection.ID = existing.ID
	projection.OwnerID = existing.OwnerID
	m.Projections[id] = projection
	return projection, nil
}

func (m *MockProjectionRepository) Delete(ownerID, id int64) error {
	p, ok := m.Projections[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrProjectionNotFound
	}
	delete(m.Projections, id)
	return nil
}

func (m *MockProjectionRepository) ListByOwner(ownerID int64) ([]*domain.Projection, error) {
	var result []*domain.Projection
	for _, p := range m.Projections {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProjectionRepository) MarkExecuted(id int64, date time.Time) error {
	p, ok := m.Projections[id]
	if !ok {
		return domain.ErrProjectionNotFound
	}
	p.LastExecuted = &date
	return nil
}

// AddProjection adds a projection to the mock repository (helper for tests).
func (m *MockProjectionRepository) AddProjection(p *domain.Projection) {
	if p.ID == 0 {
		p.ID = m.NextID
		m.NextID++
	}
	m.Projections[p.ID] = p
}
