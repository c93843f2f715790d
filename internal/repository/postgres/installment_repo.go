package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// InstallmentRepository implements domain.InstallmentRepository using PostgreSQL.
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository.
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

const installmentColumns = `id, goal_id, sequence, scheduled_date, expected_amount, state, contribution_id`

func scanInstallment(row pgx.Row) (*domain.Installment, error) {
	var i domain.Installment
	if err := row.Scan(&i.ID, &i.GoalID, &i.Sequence, &i.ScheduledDate, &i.ExpectedAmount, &i.State, &i.ContributionID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *InstallmentRepository) querier(tx interface{}) (queryRower, error) {
	if tx == nil {
		return r.pool, nil
	}
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("invalid transaction type")
	}
	return pgxTx, nil
}

func (r *InstallmentRepository) CreateBatchTx(tx interface{}, installments []*domain.Installment) ([]*domain.Installment, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	created := make([]*domain.Installment, 0, len(installments))
	for _, inst := range installments {
		row := q.QueryRow(ctx, `
			INSERT INTO installments (goal_id, sequence, scheduled_date, expected_amount, state)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+installmentColumns,
			inst.GoalID, inst.Sequence, inst.ScheduledDate, inst.ExpectedAmount, inst.State,
		)
		saved, err := scanInstallment(row)
		if err != nil {
			return nil, err
		}
		created = append(created, saved)
	}
	return created, nil
}

func (r *InstallmentRepository) getByID(ctx context.Context, q queryRower, goalID, id int64) (*domain.Installment, error) {
	row := q.QueryRow(ctx, `SELECT `+installmentColumns+` FROM installments WHERE goal_id = $1 AND id = $2`, goalID, id)
	return scanInstallment(row)
}

func (r *InstallmentRepository) GetByID(goalID, id int64) (*domain.Installment, error) {
	return r.getByID(context.Background(), r.pool, goalID, id)
}

func (r *InstallmentRepository) GetByIDTx(tx interface{}, goalID, id int64) (*domain.Installment, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	return r.getByID(context.Background(), q, goalID, id)
}

func (r *InstallmentRepository) ListByGoal(goalID int64) ([]*domain.Installment, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+installmentColumns+` FROM installments WHERE goal_id = $1 ORDER BY sequence`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Installment
	for rows.Next() {
		var i domain.Installment
		if err := rows.Scan(&i.ID, &i.GoalID, &i.Sequence, &i.ScheduledDate, &i.ExpectedAmount, &i.State, &i.ContributionID); err != nil {
			return nil, err
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}

func (r *InstallmentRepository) ListPendingByGoalTx(tx interface{}, goalID int64) ([]*domain.Installment, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(context.Background(), `
		SELECT `+installmentColumns+` FROM installments
		WHERE goal_id = $1 AND state = 'PENDING' ORDER BY sequence`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Installment
	for rows.Next() {
		var i domain.Installment
		if err := rows.Scan(&i.ID, &i.GoalID, &i.Sequence, &i.ScheduledDate, &i.ExpectedAmount, &i.State, &i.ContributionID); err != nil {
			return nil, err
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}

func (r *InstallmentRepository) MarkPaidTx(tx interface{}, id int64, amount decimal.Decimal, contributionID int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `
		UPDATE installments SET state = 'PAID', expected_amount = $2, contribution_id = $3 WHERE id = $1`,
		id, amount, contributionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}
	return nil
}

func (r *InstallmentRepository) MarkUnpaidTx(tx interface{}, id int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `UPDATE installments SET state = 'PENDING', contribution_id = NULL WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}
	return nil
}

func (r *InstallmentRepository) RebalancePendingTx(tx interface{}, id int64, expectedAmount decimal.Decimal) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	tag, err := q.Exec(context.Background(), `UPDATE installments SET expected_amount = $2 WHERE id = $1`, id, expectedAmount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstallmentNotFound
	}
	return nil
}

func (r *InstallmentRepository) DeleteByGoalTx(tx interface{}, goalID int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	_, err = q.Exec(context.Background(), `DELETE FROM installments WHERE goal_id = $1`, goalID)
	return err
}
