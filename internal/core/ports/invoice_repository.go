package ports

import (
	"context"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// ListInvoicesFilter carries the listing query and the page window.
type ListInvoicesFilter struct {
	Query  string // partial match on customer name/email, amount, date or status
	Limit  int
	Offset int
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	// Update rewrites customer, amount and status of the invoice with inv.ID.
	// The issue date is never touched.
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter ListInvoicesFilter) ([]domain.InvoiceListItem, error)
	Count(ctx context.Context, query string) (int64, error)
}

// CustomerRepository reads the customers invoices can be billed to.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
}
