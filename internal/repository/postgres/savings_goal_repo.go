package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// SavingsGoalRepository implements domain.SavingsGoalRepository using
// PostgreSQL. pool is narrowed to queryRower so tests can substitute a fake
// without a live database.
type SavingsGoalRepository struct {
	pool queryRower
}

// NewSavingsGoalRepository creates a new SavingsGoalRepository.
func NewSavingsGoalRepository(pool *pgxpool.Pool) *SavingsGoalRepository {
	return &SavingsGoalRepository{pool: pool}
}

const goalColumns = `id, public_id, owner_id, name, target, accrued, start_date, deadline, frequency, icon, color, state, created_at, updated_at`

func scanGoal(row pgx.Row) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	if err := row.Scan(&g.ID, &g.PublicID, &g.OwnerID, &g.Name, &g.Target, &g.Accrued, &g.StartDate, &g.Deadline, &g.Frequency, &g.Icon, &g.Color, &g.State, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *SavingsGoalRepository) querier(tx interface{}) (queryRower, error) {
	if tx == nil {
		return r.pool, nil
	}
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("invalid transaction type")
	}
	return pgxTx, nil
}

func (r *SavingsGoalRepository) create(ctx context.Context, q queryRower, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO savings_goals (public_id, owner_id, name, target, accrued, start_date, deadline, frequency, icon, color, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+goalColumns,
		goal.PublicID, goal.OwnerID, goal.Name, goal.Target, goal.Accrued, goal.StartDate, goal.Deadline, goal.Frequency, goal.Icon, goal.Color, goal.State,
	)
	created, err := scanGoal(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return created, nil
}

func (r *SavingsGoalRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	return r.create(context.Background(), r.pool, goal)
}

func (r *SavingsGoalRepository) CreateTx(tx interface{}, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	return r.create(context.Background(), q, goal)
}

func (r *SavingsGoalRepository) GetByID(ownerID, id int64) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+goalColumns+` FROM savings_goals WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanGoal(row)
}

func (r *SavingsGoalRepository) GetByIDAny(id int64) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1`, id)
	return scanGoal(row)
}

func (r *SavingsGoalRepository) GetByIDForUpdateTx(tx interface{}, id int64) (*domain.SavingsGoal, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(context.Background(), `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1 FOR UPDATE`, id)
	return scanGoal(row)
}

func (r *SavingsGoalRepository) GetByName(ownerID int64, name string) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+goalColumns+` FROM savings_goals WHERE owner_id = $1 AND name = $2`, ownerID, name)
	return scanGoal(row)
}

func (r *SavingsGoalRepository) Update(ownerID int64, id int64, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE savings_goals
		SET name = $3, target = $4, deadline = $5, frequency = $6, icon = $7, color = $8, state = $9, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+goalColumns,
		ownerID, id, goal.Name, goal.Target, goal.Deadline, goal.Frequency, goal.Icon, goal.Color, goal.State,
	)
	created, err := scanGoal(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return created, nil
}

func (r *SavingsGoalRepository) UpdateProgressTx(tx interface{}, id int64, accrued decimal.Decimal, state domain.GoalState) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `UPDATE savings_goals SET accrued = $2, state = $3, updated_at = now() WHERE id = $1`, id, accrued, state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *SavingsGoalRepository) ListByOwner(ownerID int64) ([]*domain.SavingsGoal, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+goalColumns+` FROM savings_goals WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.SavingsGoal
	for rows.Next() {
		var g domain.SavingsGoal
		if err := rows.Scan(&g.ID, &g.PublicID, &g.OwnerID, &g.Name, &g.Target, &g.Accrued, &g.StartDate, &g.Deadline, &g.Frequency, &g.Icon, &g.Color, &g.State, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (r *SavingsGoalRepository) delete(ctx context.Context, q queryRower, ownerID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM savings_goals WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *SavingsGoalRepository) Delete(ownerID int64, id int64) error {
	return r.delete(context.Background(), r.pool, ownerID, id)
}

func (r *SavingsGoalRepository) DeleteTx(tx interface{}, ownerID int64, id int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	return r.delete(context.Background(), q, ownerID, id)
}
