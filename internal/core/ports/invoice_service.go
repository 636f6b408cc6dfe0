package ports

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// InvoicesRoute is the listing page every successful mutation lands on.
const InvoicesRoute = "/dashboard/invoices"

// ListInvoicesInput carries the listing query parameters.
type ListInvoicesInput struct {
	Query string
	Page  int // 1-based
}

// InvoicePage is one page of the filtered listing.
type InvoicePage struct {
	Items      []domain.InvoiceListItem
	Page       int
	TotalPages int
}

// InvoiceDetail is an invoice prepared for the edit form, with the amount
// back in major currency units.
type InvoiceDetail struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Status     domain.InvoiceStatus
	Date       string
}

// InvoiceService defines the invoice form actions and the reads backing
// the dashboard pages.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, form url.Values) Outcome
	UpdateInvoice(ctx context.Context, id string, form url.Values) Outcome
	DeleteInvoice(ctx context.Context, id string) Outcome

	ListInvoices(ctx context.Context, input ListInvoicesInput) (*InvoicePage, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}
