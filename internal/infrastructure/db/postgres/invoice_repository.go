package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const (
	insertInvoiceSQL = `INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5)`

	updateInvoiceSQL = `UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4`

	deleteInvoiceSQL = `DELETE FROM invoices WHERE id = $1`

	selectInvoiceSQL = `SELECT id, customer_id, amount, status, date::text AS date FROM invoices WHERE id = $1`

	invoiceSearchClause = `
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE customers.name ILIKE $1
			OR customers.email ILIKE $1
			OR invoices.amount::text ILIKE $1
			OR invoices.date::text ILIKE $1
			OR invoices.status ILIKE $1`

	listInvoicesSQL = `
		SELECT invoices.id, invoices.customer_id, invoices.amount, invoices.status,
			invoices.date::text AS date, customers.name, customers.email, customers.image_url` +
		invoiceSearchClause + `
		ORDER BY invoices.date DESC
		LIMIT $2 OFFSET $3`

	countInvoicesSQL = `SELECT COUNT(*)` + invoiceSearchClause
)

// InvoiceRepository implements ports.InvoiceRepository on Postgres. Every
// statement is parameterised; form values never reach the SQL text.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) ports.InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.ExecContext(ctx, insertInvoiceSQL, inv.ID, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date)
	if err != nil {
		return errors.Wrap(err, "insert invoice")
	}
	return nil
}

// Update affects zero rows when the id is unknown; that is not an error.
func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.ExecContext(ctx, updateInvoiceSQL, inv.CustomerID, inv.Amount, string(inv.Status), inv.ID)
	if err != nil {
		return errors.Wrapf(err, "update invoice %s", inv.ID)
	}
	return nil
}

// Delete affects zero rows when the id is unknown; that is not an error.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteInvoiceSQL, id); err != nil {
		return errors.Wrapf(err, "delete invoice %s", id)
	}
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.GetContext(ctx, &inv, selectInvoiceSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, errors.Wrapf(err, "select invoice %s", id)
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter ports.ListInvoicesFilter) ([]domain.InvoiceListItem, error) {
	items := []domain.InvoiceListItem{}
	if err := r.db.SelectContext(ctx, &items, listInvoicesSQL, likePattern(filter.Query), filter.Limit, filter.Offset); err != nil {
		return nil, errors.Wrap(err, "list invoices")
	}
	return items, nil
}

func (r *InvoiceRepository) Count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, countInvoicesSQL, likePattern(query)); err != nil {
		return 0, errors.Wrap(err, "count invoices")
	}
	return n, nil
}

func likePattern(query string) string {
	return "%" + query + "%"
}
