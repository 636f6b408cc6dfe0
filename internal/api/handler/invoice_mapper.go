package handler

import (
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

// formatCents renders a cent amount in major units with two decimals.
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func toListResponse(p *ports.InvoicePage, query string) invoiceListResponse {
	items := make([]invoiceListItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, invoiceListItemResponse{
			ID:         it.ID,
			CustomerID: it.CustomerID,
			Name:       it.Name,
			Email:      it.Email,
			ImageURL:   it.ImageURL,
			Amount:     formatCents(it.Amount),
			Status:     string(it.Status),
			Date:       it.Date,
		})
	}
	return invoiceListResponse{
		Invoices:   items,
		Query:      query,
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
}

func toCustomerResponses(customers []domain.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			ImageURL: c.ImageURL,
		})
	}
	return out
}

func toDetailResponse(d *ports.InvoiceDetail) *invoiceDetailResponse {
	return &invoiceDetailResponse{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Amount:     d.Amount.StringFixed(2),
		Status:     string(d.Status),
		Date:       d.Date,
	}
}
