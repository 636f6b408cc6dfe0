package domain

import (
	"time"

	"github.com/cockroachdb/errors"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// DateLayout is the calendar-day format invoices are stored with.
const DateLayout = "2006-01-02"

var ErrInvoiceNotFound = errors.New("invoice not found")

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice is a single billing record. Amount is held in cents.
type Invoice struct {
	ID         string        `json:"id" db:"id"`
	CustomerID string        `json:"customer_id" db:"customer_id"`
	Amount     int64         `json:"amount" db:"amount"`
	Status     InvoiceStatus `json:"status" db:"status"`
	Date       string        `json:"date" db:"date"`
}

// InvoiceListItem is an invoice joined with the customer it was issued to.
type InvoiceListItem struct {
	Invoice
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	ImageURL string `json:"image_url" db:"image_url"`
}

// Customer is the party an invoice is billed to.
type Customer struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	ImageURL string `json:"image_url" db:"image_url"`
}

// IssueDate truncates t to the UTC calendar day.
func IssueDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
