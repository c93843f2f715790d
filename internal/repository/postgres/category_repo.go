package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL.
// Categories are read-only from the API's perspective (spec §4.4); rows are
// seeded out of band.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, icon, type, predefined, owner_id`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Type, &c.Predefined, &c.OwnerID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanCategories(rows pgx.Rows) ([]*domain.Category, error) {
	defer rows.Close()
	var out []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Type, &c.Predefined, &c.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) GetByID(id int64) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *CategoryRepository) ListPredefined() ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), `SELECT `+categoryColumns+` FROM categories WHERE predefined = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

func (r *CategoryRepository) ListAvailableTo(ownerID int64) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+categoryColumns+` FROM categories
		WHERE predefined = true OR owner_id = $1
		ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}

func (r *CategoryRepository) ListByType(ownerID int64, t domain.CategoryType) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+categoryColumns+` FROM categories
		WHERE (predefined = true OR owner_id = $1) AND type = $2
		ORDER BY name`, ownerID, t)
	if err != nil {
		return nil, err
	}
	return scanCategories(rows)
}
