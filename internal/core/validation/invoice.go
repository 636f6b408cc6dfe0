package validation

import (
	"math"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
)

// maxCents is the largest amount the invoices.amount INT column holds.
var maxCents = decimal.NewFromInt(math.MaxInt32)

var invoiceMessages = map[string]string{
	"customerId": MsgSelectCustomer,
	"amount":     MsgAmountPositive,
	"status":     MsgSelectStatus,
}

type invoiceForm struct {
	CustomerID string `schema:"customerId" validate:"required"`
	Amount     string `schema:"amount"`
	Status     string `schema:"status"     validate:"oneof=pending paid"`
}

// InvoiceFields is a validated invoice submission. Amount is in major
// currency units.
type InvoiceFields struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     domain.InvoiceStatus
}

// AmountInCents converts Amount to minor units, rounding half away from zero.
func (f InvoiceFields) AmountInCents() int64 {
	return toCents(f.Amount)
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ParseInvoiceForm checks the customer, amount and status of a create or
// update submission. Either the fields or a non-empty FieldErrors is
// meaningful, never both.
func ParseInvoiceForm(values url.Values) (InvoiceFields, FieldErrors) {
	errs := FieldErrors{}

	var form invoiceForm
	if err := decoder.Decode(&form, values); err != nil {
		var multi schema.MultiError
		if !errors.As(err, &multi) {
			for field, msg := range invoiceMessages {
				errs.Add(field, msg)
			}
			return InvoiceFields{}, errs
		}
		for key := range multi {
			if msg, ok := invoiceMessages[key]; ok {
				errs.Add(key, msg)
			}
		}
	}

	form.CustomerID = strings.TrimSpace(form.CustomerID)
	if err := validate.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				errs.Add(fe.Field(), invoiceMessages[fe.Field()])
			}
		}
	}

	amount, ok := parseAmount(form.Amount)
	if !ok {
		errs.Add("amount", MsgAmountPositive)
	}

	if !errs.Empty() {
		return InvoiceFields{}, errs
	}
	return InvoiceFields{
		CustomerID: form.CustomerID,
		Amount:     amount,
		Status:     domain.InvoiceStatus(form.Status),
	}, nil
}

// parseAmount accepts a decimal that rounds to between 1 and maxCents cents.
// The range is checked on the decimal before any int64 conversion.
func parseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return decimal.Zero, false
	}
	return d, true
}
