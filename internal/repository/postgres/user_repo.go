package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, external_subject, email, name, active, role, guardian_id, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ExternalSubject, &u.Email, &u.Name, &u.Active, &u.Role, &u.GuardianID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int64) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByExternalSubject(subject string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+userColumns+` FROM users WHERE external_subject = $1`, subject)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (external_subject, email, name, active, role, guardian_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+userColumns,
		user.ExternalSubject, user.Email, user.Name, user.Active, user.Role, user.GuardianID,
	)
	created, err := scanUser(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users
		SET email = $2, name = $3, active = $4, role = $5, guardian_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, user.Active, user.Role, user.GuardianID,
	)
	return scanUser(row)
}

func (r *UserRepository) Deactivate(id int64) error {
	tag, err := r.pool.Exec(context.Background(), `UPDATE users SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
