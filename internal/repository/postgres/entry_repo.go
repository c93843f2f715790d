package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// EntryRepository implements domain.EntryRepository using PostgreSQL.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `e.id, e.owner_id, e.category_id, c.name, c.icon, e.amount, e.type, e.description, e.date, e.created_at, e.source_projection_id`

const entrySelectJoin = `SELECT ` + entryColumns + ` FROM entries e JOIN categories c ON c.id = e.category_id`

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	if err := row.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.CategoryName, &e.CategoryIcon, &e.Amount, &e.Type, &e.Description, &e.Date, &e.CreatedAt, &e.SourceProjectionID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	defer rows.Close()
	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.CategoryName, &e.CategoryIcon, &e.Amount, &e.Type, &e.Description, &e.Date, &e.CreatedAt, &e.SourceProjectionID); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *EntryRepository) querier(tx interface{}) (queryRower, error) {
	if tx == nil {
		return r.pool, nil
	}
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("invalid transaction type")
	}
	return pgxTx, nil
}

func (r *EntryRepository) create(ctx context.Context, q queryRower, entry *domain.Entry) (*domain.Entry, error) {
	var id int64
	var createdAt time.Time
	err := q.QueryRow(ctx, `
		INSERT INTO entries (owner_id, category_id, amount, type, description, date, source_projection_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at`,
		entry.OwnerID, entry.CategoryID, entry.Amount, entry.Type, entry.Description, entry.Date, entry.SourceProjectionID,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	entry.CreatedAt = createdAt
	return entry, nil
}

func (r *EntryRepository) Create(entry *domain.Entry) (*domain.Entry, error) {
	return r.create(context.Background(), r.pool, entry)
}

func (r *EntryRepository) CreateTx(tx interface{}, entry *domain.Entry) (*domain.Entry, error) {
	q, err := r.querier(tx)
	if err != nil {
		return nil, err
	}
	return r.create(context.Background(), q, entry)
}

func (r *EntryRepository) GetByID(ownerID, id int64) (*domain.Entry, error) {
	row := r.pool.QueryRow(context.Background(), entrySelectJoin+` WHERE e.owner_id = $1 AND e.id = $2`, ownerID, id)
	return scanEntry(row)
}

func (r *EntryRepository) GetByIDAny(id int64) (*domain.Entry, error) {
	row := r.pool.QueryRow(context.Background(), entrySelectJoin+` WHERE e.id = $1`, id)
	return scanEntry(row)
}

func (r *EntryRepository) Update(ownerID, id int64, data *domain.UpdateEntryInput) (*domain.Entry, error) {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE entries
		SET category_id = $3, amount = $4, type = $5, description = $6, date = $7
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id, data.CategoryID, data.Amount, data.Type, data.Description, data.Date,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return r.GetByID(ownerID, id)
}

func (r *EntryRepository) delete(ctx context.Context, q queryRower, ownerID, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM entries WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ownerID, id int64) error {
	return r.delete(context.Background(), r.pool, ownerID, id)
}

func (r *EntryRepository) DeleteTx(tx interface{}, ownerID, id int64) error {
	q, err := r.querier(tx)
	if err != nil {
		return err
	}
	return r.delete(context.Background(), q, ownerID, id)
}

// entryFilterClause builds the shared WHERE clause for List and ListPage
// so pagination can't drift from the unpaginated filter semantics.
func entryFilterClause(ownerID int64, filters *domain.EntryFilters) (string, []interface{}) {
	clause := ` WHERE e.owner_id = $1`
	args := []interface{}{ownerID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, *filters.Type)
			clause += ` AND e.type = $` + itoa(len(args))
		}
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			clause += ` AND e.category_id = $` + itoa(len(args))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			clause += ` AND e.date >= $` + itoa(len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			clause += ` AND e.date <= $` + itoa(len(args))
		}
	}
	return clause, args
}

func (r *EntryRepository) List(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, error) {
	clause, args := entryFilterClause(ownerID, filters)
	query := entrySelectJoin + clause + ` ORDER BY e.date DESC, e.id DESC`

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *EntryRepository) ListPage(ownerID int64, filters *domain.EntryFilters) ([]*domain.Entry, int64, error) {
	clause, args := entryFilterClause(ownerID, filters)
	ctx := context.Background()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries e`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := domain.DefaultPageSize
	pageSize := domain.DefaultPageSize
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	if filters == nil || filters.Page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	pagedArgs := append(append([]interface{}{}, args...), pageSize, offset)
	query := entrySelectJoin + clause + ` ORDER BY e.date DESC, e.id DESC LIMIT $` +
		itoa(len(pagedArgs)-1) + ` OFFSET $` + itoa(len(pagedArgs))

	rows, err := r.pool.Query(ctx, query, pagedArgs...)
	if err != nil {
		return nil, 0, err
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// RecentCategories groups the owner's entries by category and returns the
// most recently used ones (spec §6 supplemented feature).
func (r *EntryRepository) RecentCategories(ownerID int64, limit int) ([]*domain.RecentCategory, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT c.id, c.name, c.icon, MAX(e.date) AS last_used
		FROM entries e JOIN categories c ON c.id = e.category_id
		WHERE e.owner_id = $1
		GROUP BY c.id, c.name, c.icon
		ORDER BY last_used DESC
		LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.RecentCategory
	for rows.Next() {
		var rc domain.RecentCategory
		if err := rows.Scan(&rc.CategoryID, &rc.Name, &rc.Icon, &rc.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, &rc)
	}
	return out, rows.Err()
}

func (r *EntryRepository) Balance(ownerID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
		FROM entries WHERE owner_id = $1`, ownerID).Scan(&balance)
	return balance, err
}

func (r *EntryRepository) Summary(ownerID int64) (*domain.Summary, error) {
	var s domain.Summary
	err := r.pool.QueryRow(context.Background(), `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM entries WHERE owner_id = $1`, ownerID).Scan(&s.TotalIncome, &s.TotalExpense, &s.Count)
	if err != nil {
		return nil, err
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return &s, nil
}

func (r *EntryRepository) SumExpensesInWindow(ownerID, categoryID int64, start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(amount), 0) FROM entries
		WHERE owner_id = $1 AND category_id = $2 AND type = 'EXPENSE' AND date BETWEEN $3 AND $4`,
		ownerID, categoryID, start, end).Scan(&sum)
	return sum, err
}
