package postgres

import (
	"context"
	"database/sql"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It is read-only: account writes belong to the external auth service.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, first_name, last_name, email, phone, role, created_at`

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var phone sql.NullString
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return &u, nil
}
