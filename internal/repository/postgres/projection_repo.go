package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// ProjectionRepository implements domain.ProjectionRepository using PostgreSQL.
type ProjectionRepository struct {
	pool *pgxpool.Pool
}

// NewProjectionRepository creates a new ProjectionRepository.
func NewProjectionRepository(pool *pgxpool.Pool) *ProjectionRepository {
	return &ProjectionRepository{pool: pool}
}

const projectionColumns = `id, owner_id, name, amount, type, category_id, frequency, start_date, last_executed, active`

func scanProjection(row pgx.Row) (*domain.Projection, error) {
	var p domain.Projection
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Amount, &p.Type, &p.CategoryID, &p.Frequency, &p.StartDate, &p.LastExecuted, &p.Active); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProjectionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectionRepository) Create(projection *domain.Projection) (*domain.Projection, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO projections (owner_id, name, amount, type, category_id, frequency, start_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectionColumns,
		projection.OwnerID, projection.Name, projection.Amount, projection.Type, projection.CategoryID, projection.Frequency, projection.StartDate, projection.Active,
	)
	return scanProjection(row)
}

func (r *ProjectionRepository) GetByID(ownerID, id int64) (*domain.Projection, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+projectionColumns+` FROM projections WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanProjection(row)
}

func (r *ProjectionRepository) GetByIDAny(id int64) (*domain.Projection, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+projectionColumns+` FROM projections WHERE id = $1`, id)
	return scanProjection(row)
}

func (r *ProjectionRepository) Update(ownerID, id int64, projection *domain.Projection) (*domain.Projection, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE projections
		SET name = $3, amount = $4, type = $5, category_id = $6, frequency = $7, start_date = $8, active = $9
		WHERE owner_id = $1 AND id = $2
		RETURNING `+projectionColumns,
		ownerID, id, projection.Name, projection.Amount, projection.Type, projection.CategoryID, projection.Frequency, projection.StartDate, projection.Active,
	)
	return scanProjection(row)
}

func (r *ProjectionRepository) Delete(ownerID, id int64) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM projections WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectionNotFound
	}
	return nil
}

func (r *ProjectionRepository) ListByOwner(ownerID int64) ([]*domain.Projection, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+projectionColumns+` FROM projections WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Projection
	for rows.Next() {
		var p domain.Projection
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Amount, &p.Type, &p.CategoryID, &p.Frequency, &p.StartDate, &p.LastExecuted, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *ProjectionRepository) MarkExecuted(id int64, date time.Time) error {
	tag, err := r.pool.Exec(context.Background(), `UPDATE projections SET last_executed = $2 WHERE id = $1`, id, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectionNotFound
	}
	return nil
}
