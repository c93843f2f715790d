package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL.
// pool is narrowed to queryRower so tests can substitute a fake without a
// live database.
type BudgetRepository struct {
	pool queryRower
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, public_id, owner_id, category_id, cap, consumed, start_date, end_date, frequency, state, auto_renew, created_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	if err := row.Scan(&b.ID, &b.PublicID, &b.OwnerID, &b.CategoryID, &b.Cap, &b.Consumed, &b.StartDate, &b.EndDate, &b.Frequency, &b.State, &b.AutoRenew, &b.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func scanBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	defer rows.Close()
	var out []*domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.ID, &b.PublicID, &b.OwnerID, &b.CategoryID, &b.Cap, &b.Consumed, &b.StartDate, &b.EndDate, &b.Frequency, &b.State, &b.AutoRenew, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *BudgetRepository) querier(tx interface{}) (queryRower, error) {
	if tx == nil {
		return r.pool, nil
	}
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("invalid transaction type")
	}
	return pgxTx, nil
}

func (r *BudgetRepository) create(ctx context.Context, q queryRower, budget *domain.Budget) (*domain.Budget, error) {
	if budget.PublicID == uuid.Nil {
		budget.PublicID = uuid.New()
	}
	row := q.QueryRow(ctx, `
		INSERT INTO budgets (public_id, owner_id, category_id, cap, consumed, start_date, end_date, frequency, state, auto_renew, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING `+budgetColumns,
		budget.PublicID, budget.OwnerID, budget.CategoryID, budget.Cap, budget.Consumed, budget.StartDate, budget.EndDate, budget.Frequency, budget.State, budget.AutoRenew,
	)
	created, err := scanBudget(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateActiveBudget
		}
		return nil, err
	}
	return created, nil
}

func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	return r.create(context.Background(), r.pool, budget)
}

func (r *BudgetRepository) CreateTx(tx interface{}, budget *domain.Budget) (*domain.Budget, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	return r.create(context.Background(), q, budget)
}

func (r *BudgetRepository) GetByID(ownerID int64, publicID uuid.UUID) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 AND public_id = $2`, ownerID, publicID)
	return scanBudget(row)
}

func (r *BudgetRepository) GetByIDAny(publicID uuid.UUID) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+budgetColumns+` FROM budgets WHERE public_id = $1`, publicID)
	return scanBudget(row)
}

func (r *BudgetRepository) GetActiveForCategory(ownerID, categoryID int64) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE owner_id = $1 AND category_id = $2 AND state = 'ACTIVE'`, ownerID, categoryID)
	return scanBudget(row)
}

func (r *BudgetRepository) GetActiveForCategoryForUpdateTx(tx interface{}, ownerID, categoryID int64) (*domain.Budget, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE owner_id = $1 AND category_id = $2 AND state = 'ACTIVE'
		FOR UPDATE`, ownerID, categoryID)
	return scanBudget(row)
}

func (r *BudgetRepository) Update(ownerID int64, publicID uuid.UUID, budget *domain.Budget) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE budgets
		SET cap = $3, start_date = $4, end_date = $5, frequency = $6, auto_renew = $7, state = $8
		WHERE owner_id = $1 AND public_id = $2
		RETURNING `+budgetColumns,
		ownerID, publicID, budget.Cap, budget.StartDate, budget.EndDate, budget.Frequency, budget.AutoRenew, budget.State,
	)
	return scanBudget(row)
}

func (r *BudgetRepository) UpdateConsumedTx(tx interface{}, id int64, consumed decimal.Decimal, state domain.BudgetState) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `UPDATE budgets SET consumed = $2, state = $3 WHERE id = $1`, id, consumed, state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) deactivate(ctx context.Context, q queryRower, where string, arg interface{}) error {
	tag, err := q.Exec(ctx, `UPDATE budgets SET state = 'INACTIVE' WHERE `+where, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) Deactivate(ownerID int64, publicID uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(), `UPDATE budgets SET state = 'INACTIVE' WHERE owner_id = $1 AND public_id = $2`, ownerID, publicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) DeactivateTx(tx interface{}, id int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	return r.deactivate(context.Background(), q, "id = $1", id)
}

func (r *BudgetRepository) ListByOwner(ownerID int64) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 ORDER BY start_date DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanBudgets(rows)
}

func (r *BudgetRepository) ListCurrent(ownerID int64, today time.Time) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE owner_id = $1 AND start_date <= $2 AND end_date >= $2 AND state != 'INACTIVE'
		ORDER BY start_date DESC`, ownerID, today)
	if err != nil {
		return nil, err
	}
	return scanBudgets(rows)
}

func (r *BudgetRepository) ListNearLimit(ownerID int64, threshold decimal.Decimal) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE owner_id = $1 AND state != 'INACTIVE' AND cap > 0 AND (consumed / cap) >= $2
		ORDER BY start_date DESC`, ownerID, threshold)
	if err != nil {
		return nil, err
	}
	return scanBudgets(rows)
}

func (r *BudgetRepository) ListOver(ownerID int64) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE owner_id = $1 AND state = 'OVER'
		ORDER BY start_date DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanBudgets(rows)
}

func (r *BudgetRepository) ListPendingProcessing(date time.Time) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+budgetColumns+` FROM budgets
		WHERE state != 'INACTIVE' AND end_date < $1
		ORDER BY owner_id, id`, date)
	if err != nil {
		return nil, err
	}
	return scanBudgets(rows)
}
