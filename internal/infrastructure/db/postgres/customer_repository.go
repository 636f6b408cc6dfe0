package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const listCustomersSQL = `SELECT id, name, email, image_url FROM customers ORDER BY name ASC`

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) ports.CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, listCustomersSQL); err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return customers, nil
}
