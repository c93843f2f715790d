package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// ContributionRepository implements domain.ContributionRepository using PostgreSQL.
type ContributionRepository struct {
	pool *pgxpool.Pool
}

// NewContributionRepository creates a new ContributionRepository.
func NewContributionRepository(pool *pgxpool.Pool) *ContributionRepository {
	return &ContributionRepository{pool: pool}
}

const contributionColumns = `id, goal_id, owner_id, amount, description, timestamp, installment_id`

func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	var c domain.Contribution
	if err := row.Scan(&c.ID, &c.GoalID, &c.OwnerID, &c.Amount, &c.Description, &c.Timestamp, &c.InstallmentID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrContributionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContributionRepository) querier(tx interface{}) (queryRower, error) {
	if tx == nil {
		return r.pool, nil
	}
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("invalid transaction type")
	}
	return pgxTx, nil
}

func (r *ContributionRepository) CreateTx(tx interface{}, contribution *domain.Contribution) (*domain.Contribution, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(context.Background(), `
		INSERT INTO contributions (goal_id, owner_id, amount, description, timestamp, installment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contributionColumns,
		contribution.GoalID, contribution.OwnerID, contribution.Amount, contribution.Description, contribution.Timestamp, contribution.InstallmentID,
	)
	return scanContribution(row)
}

func (r *ContributionRepository) GetByID(ownerID, id int64) (*domain.Contribution, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+contributionColumns+` FROM contributions WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanContribution(row)
}

func (r *ContributionRepository) GetByIDAny(id int64) (*domain.Contribution, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id)
	return scanContribution(row)
}

func (r *ContributionRepository) UpdateTx(tx interface{}, id int64, amount decimal.Decimal, description string) (*domain.Contribution, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	row := q.QueryRow(context.Background(), `
		UPDATE contributions SET amount = $2, description = $3 WHERE id = $1
		RETURNING `+contributionColumns, id, amount, description)
	return scanContribution(row)
}

func (r *ContributionRepository) DeleteTx(tx interface{}, id int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `DELETE FROM contributions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContributionNotFound
	}
	return nil
}

func (r *ContributionRepository) ListByGoal(goalID int64) ([]*domain.Contribution, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+contributionColumns+` FROM contributions WHERE goal_id = $1 ORDER BY timestamp DESC`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.OwnerID, &c.Amount, &c.Description, &c.Timestamp, &c.InstallmentID); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
