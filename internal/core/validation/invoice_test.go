package validation

import (
	"net/url"
	"testing"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

func invoiceValues(customerID, amount, status string) url.Values {
	v := url.Values{}
	if customerID != "" {
		v.Set("customerId", customerID)
	}
	if amount != "" {
		v.Set("amount", amount)
	}
	if status != "" {
		v.Set("status", status)
	}
	return v
}

func hasMessage(errs FieldErrors, field, msg string) bool {
	for _, m := range errs[field] {
		if m == msg {
			return true
		}
	}
	return false
}

func TestParseInvoiceForm_Valid(t *testing.T) {
	fields, errs := ParseInvoiceForm(invoiceValues("c1", "250", "pending"))
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fields.CustomerID != "c1" {
		t.Errorf("customer: got %q", fields.CustomerID)
	}
	if fields.Status != domain.StatusPending {
		t.Errorf("status: got %q", fields.Status)
	}
	if got := fields.AmountInCents(); got != 25000 {
		t.Errorf("cents: expected 25000, got %d", got)
	}
}

func TestParseInvoiceForm_MissingCustomer(t *testing.T) {
	_, errs := ParseInvoiceForm(invoiceValues("", "10", "paid"))
	if !hasMessage(errs, "customerId", MsgSelectCustomer) {
		t.Fatalf("expected customer error, got %v", errs)
	}
	if len(errs) != 1 {
		t.Errorf("only customerId should fail, got %v", errs)
	}
}

func TestParseInvoiceForm_NonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"", "0", "-1", "-0.01", "abc", "0.001", "NaN"} {
		_, errs := ParseInvoiceForm(invoiceValues("c1", amount, "paid"))
		if !hasMessage(errs, "amount", MsgAmountPositive) {
			t.Errorf("amount=%q: expected amount error, got %v", amount, errs)
		}
		if len(errs["amount"]) != 1 {
			t.Errorf("amount=%q: expected a single message, got %v", amount, errs["amount"])
		}
	}
}

func TestParseInvoiceForm_AmountOutOfRange(t *testing.T) {
	for _, amount := range []string{
		"184467440737095516.17",
		"92233720368547758.08",
		"1e30",
		"21474836.48",
	} {
		_, errs := ParseInvoiceForm(invoiceValues("c1", amount, "paid"))
		if !hasMessage(errs, "amount", MsgAmountPositive) {
			t.Errorf("amount=%q: expected amount error, got %v", amount, errs)
		}
	}

	fields, errs := ParseInvoiceForm(invoiceValues("c1", "21474836.47", "paid"))
	if !errs.Empty() {
		t.Fatalf("largest amount rejected: %v", errs)
	}
	if got := fields.AmountInCents(); got != 2147483647 {
		t.Errorf("expected 2147483647 cents, got %d", got)
	}
}

func TestParseInvoiceForm_BlankCustomer(t *testing.T) {
	for _, customer := range []string{"   ", "\t\n"} {
		_, errs := ParseInvoiceForm(invoiceValues(customer, "10", "paid"))
		if !hasMessage(errs, "customerId", MsgSelectCustomer) {
			t.Errorf("customerId=%q: expected customer error, got %v", customer, errs)
		}
	}

	fields, errs := ParseInvoiceForm(invoiceValues("  c1 ", "10", "paid"))
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fields.CustomerID != "c1" {
		t.Errorf("expected trimmed customer id, got %q", fields.CustomerID)
	}
}

func TestParseInvoiceForm_InvalidStatus(t *testing.T) {
	for _, status := range []string{"", "overdue", "PAID"} {
		_, errs := ParseInvoiceForm(invoiceValues("c1", "10", status))
		if !hasMessage(errs, "status", MsgSelectStatus) {
			t.Errorf("status=%q: expected status error, got %v", status, errs)
		}
	}
}

func TestParseInvoiceForm_AllFieldsMissing(t *testing.T) {
	_, errs := ParseInvoiceForm(url.Values{})
	for field, msg := range map[string]string{
		"customerId": MsgSelectCustomer,
		"amount":     MsgAmountPositive,
		"status":     MsgSelectStatus,
	} {
		if !hasMessage(errs, field, msg) {
			t.Errorf("%s: expected %q, got %v", field, msg, errs[field])
		}
	}
}

func TestParseInvoiceForm_IgnoresIDAndDate(t *testing.T) {
	v := invoiceValues("c1", "1", "paid")
	v.Set("id", "forged")
	v.Set("date", "1999-01-01")
	if _, errs := ParseInvoiceForm(v); !errs.Empty() {
		t.Fatalf("extra keys must be ignored, got %v", errs)
	}
}

func TestInvoiceFields_AmountInCents(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"12.5", 1250},
		{"250", 25000},
		{"0.01", 1},
		{"19.99", 1999},
		{"0.1", 10},
		{"1.005", 101},
	}
	for _, tc := range cases {
		fields, errs := ParseInvoiceForm(invoiceValues("c1", tc.amount, "paid"))
		if !errs.Empty() {
			t.Fatalf("amount=%q: unexpected errors %v", tc.amount, errs)
		}
		if got := fields.AmountInCents(); got != tc.want {
			t.Errorf("amount=%q: expected %d cents, got %d", tc.amount, tc.want, got)
		}
	}
}
