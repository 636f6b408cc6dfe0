package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const selectUserByEmailSQL = `SELECT id, name, email, password FROM users WHERE email = $1`

// UserRepository implements ports.UserRepository on Postgres.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns domain.ErrUserNotFound when no row matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, selectUserByEmailSQL, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by email")
	}
	return &u, nil
}
