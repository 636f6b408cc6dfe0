package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

type stubInvoiceRepo struct {
	invoices map[string]*domain.Invoice
	creates  int
	updates  int
	err      error
	lastList ports.ListInvoicesFilter
	total    int64
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) error {
	r.creates++
	if r.err != nil {
		return r.err
	}
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *domain.Invoice) error {
	r.updates++
	if r.err != nil {
		return r.err
	}
	existing, ok := r.invoices[inv.ID]
	if !ok {
		return nil
	}
	existing.CustomerID = inv.CustomerID
	existing.Amount = inv.Amount
	existing.Status = inv.Status
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, filter ports.ListInvoicesFilter) ([]domain.InvoiceListItem, error) {
	r.lastList = filter
	if r.err != nil {
		return nil, r.err
	}
	return []domain.InvoiceListItem{}, nil
}

func (r *stubInvoiceRepo) Count(_ context.Context, _ string) (int64, error) {
	return r.total, r.err
}

type stubCustomerRepo struct {
	customers []domain.Customer
}

func (r *stubCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	return r.customers, nil
}

type stubRevalidator struct {
	paths []string
	err   error
}

func (r *stubRevalidator) Revalidate(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

type stubAuditSink struct {
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(event domain.AuditEvent) {
	s.events = append(s.events, event)
}

type invoiceFixture struct {
	svc   *InvoiceService
	repo  *stubInvoiceRepo
	cache *stubRevalidator
	audit *stubAuditSink
}

var fixedNow = time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		repo:  newStubInvoiceRepo(),
		cache: &stubRevalidator{},
		audit: &stubAuditSink{},
	}
	f.svc = NewInvoiceService(f.repo, &stubCustomerRepo{}, f.cache, f.audit, zerolog.Nop())
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newID = func() string { return "inv-1" }
	return f
}

func invoiceForm(customerID, amount, status string) url.Values {
	return url.Values{"customerId": {customerID}, "amount": {amount}, "status": {status}}
}

func TestInvoiceService_CreateInvoice_Success(t *testing.T) {
	f := newInvoiceFixture()

	out := f.svc.CreateInvoice(context.Background(), invoiceForm("c1", "250", "pending"))

	if out.Kind != ports.OutcomeRedirect || out.RedirectTo != "/dashboard/invoices" {
		t.Fatalf("expected redirect to listing, got %+v", out)
	}
	if f.repo.creates != 1 {
		t.Fatalf("expected one insert, got %d", f.repo.creates)
	}
	inv := f.repo.invoices["inv-1"]
	if inv == nil {
		t.Fatalf("invoice not stored")
	}
	if inv.Amount != 25000 || inv.CustomerID != "c1" || inv.Status != domain.StatusPending {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if inv.Date != "2024-06-15" {
		t.Fatalf("expected date 2024-06-15, got %s", inv.Date)
	}
	if len(f.cache.paths) != 1 || f.cache.paths[0] != "/dashboard/invoices" {
		t.Fatalf("expected listing revalidated once, got %v", f.cache.paths)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Action != domain.AuditInvoiceCreated {
		t.Fatalf("expected create audit event, got %+v", f.audit.events)
	}
}

func TestInvoiceService_CreateInvoice_FractionalAmount(t *testing.T) {
	f := newInvoiceFixture()

	out := f.svc.CreateInvoice(context.Background(), invoiceForm("c1", "12.5", "paid"))
	if out.Kind != ports.OutcomeRedirect {
		t.Fatalf("expected redirect, got %+v", out)
	}
	if got := f.repo.invoices["inv-1"].Amount; got != 1250 {
		t.Fatalf("expected 1250 cents, got %d", got)
	}
}

func TestInvoiceService_CreateInvoice_ValidationFailure(t *testing.T) {
	f := newInvoiceFixture()

	out := f.svc.CreateInvoice(context.Background(), invoiceForm("", "250", "pending"))

	if out.Kind != ports.OutcomeErrors {
		t.Fatalf("expected errors outcome, got %+v", out)
	}
	if out.State.Message != MsgCreateMissingFields {
		t.Fatalf("unexpected message: %q", out.State.Message)
	}
	if len(out.State.Errors["customerId"]) != 1 {
		t.Fatalf("expected customerId error, got %v", out.State.Errors)
	}
	if _, ok := out.State.Errors["amount"]; ok {
		t.Fatalf("did not expect amount error, got %v", out.State.Errors)
	}
	if f.repo.creates != 0 || len(f.cache.paths) != 0 {
		t.Fatalf("expected no side effects, got creates=%d revalidations=%v", f.repo.creates, f.cache.paths)
	}
}

func TestInvoiceService_CreateInvoice_DatabaseError(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.err = errors.New("insert failed")

	out := f.svc.CreateInvoice(context.Background(), invoiceForm("c1", "250", "pending"))

	if out.Kind != ports.OutcomeErrors {
		t.Fatalf("expected errors outcome, got %+v", out)
	}
	if out.State.Error == nil || out.State.Error.Message != MsgCreateDatabaseError {
		t.Fatalf("unexpected state: %+v", out.State)
	}
	if len(f.cache.paths) != 0 || len(f.audit.events) != 0 {
		t.Fatalf("expected no revalidation or audit on failure")
	}
}

func TestInvoiceService_CreateInvoice_RevalidateFailureStillRedirects(t *testing.T) {
	f := newInvoiceFixture()
	f.cache.err = errors.New("redis down")

	out := f.svc.CreateInvoice(context.Background(), invoiceForm("c1", "250", "pending"))
	if out.Kind != ports.OutcomeRedirect {
		t.Fatalf("expected redirect, got %+v", out)
	}
}

func TestInvoiceService_CreateInvoice_RecordsActor(t *testing.T) {
	f := newInvoiceFixture()
	ctx := domain.WithIdentity(context.Background(), domain.Identity{ID: "u1", Email: "user@nextmail.com"})

	f.svc.CreateInvoice(ctx, invoiceForm("c1", "250", "pending"))

	if len(f.audit.events) != 1 || f.audit.events[0].Actor != "user@nextmail.com" {
		t.Fatalf("expected actor on audit event, got %+v", f.audit.events)
	}
}

func TestInvoiceService_UpdateInvoice_Success(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.invoices["inv-9"] = &domain.Invoice{ID: "inv-9", CustomerID: "c1", Amount: 100, Status: domain.StatusPending, Date: "2023-01-02"}

	form := invoiceForm("c2", "19.99", "paid")
	form.Set("date", "1999-01-01")
	form.Set("id", "other")
	out := f.svc.UpdateInvoice(context.Background(), "inv-9", form)

	if out.Kind != ports.OutcomeRedirect || out.RedirectTo != ports.InvoicesRoute {
		t.Fatalf("expected redirect, got %+v", out)
	}
	inv := f.repo.invoices["inv-9"]
	if inv.CustomerID != "c2" || inv.Amount != 1999 || inv.Status != domain.StatusPaid {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if inv.Date != "2023-01-02" {
		t.Fatalf("expected date untouched, got %s", inv.Date)
	}
	if _, ok := f.repo.invoices["other"]; ok {
		t.Fatalf("form id must be ignored")
	}
	if len(f.cache.paths) != 1 {
		t.Fatalf("expected one revalidation, got %v", f.cache.paths)
	}
}

func TestInvoiceService_UpdateInvoice_MissingIDIsSilent(t *testing.T) {
	f := newInvoiceFixture()

	out := f.svc.UpdateInvoice(context.Background(), "does-not-exist", invoiceForm("c1", "10", "paid"))
	if out.Kind != ports.OutcomeRedirect {
		t.Fatalf("expected redirect, got %+v", out)
	}
	if len(f.repo.invoices) != 0 {
		t.Fatalf("update must not create invoices")
	}
}

func TestInvoiceService_UpdateInvoice_Failures(t *testing.T) {
	f := newInvoiceFixture()

	out := f.svc.UpdateInvoice(context.Background(), "inv-1", invoiceForm("c1", "0", "unknown"))
	if out.Kind != ports.OutcomeErrors || out.State.Message != MsgUpdateMissingFields {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(out.State.Errors["amount"]) != 1 || len(out.State.Errors["status"]) != 1 {
		t.Fatalf("expected amount and status errors, got %v", out.State.Errors)
	}
	if f.repo.updates != 0 {
		t.Fatalf("expected no update call, got %d", f.repo.updates)
	}

	f.repo.err = errors.New("update failed")
	out = f.svc.UpdateInvoice(context.Background(), "inv-1", invoiceForm("c1", "10", "paid"))
	if out.Kind != ports.OutcomeErrors || out.State.Message != MsgUpdateDatabaseError {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(out.State.Errors) != 0 {
		t.Fatalf("expected no field errors, got %v", out.State.Errors)
	}
}

func TestInvoiceService_DeleteInvoice_Idempotent(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.invoices["inv-1"] = &domain.Invoice{ID: "inv-1"}

	for i := 0; i < 2; i++ {
		out := f.svc.DeleteInvoice(context.Background(), "inv-1")
		if out.Kind != ports.OutcomeRendered || out.State.Message != MsgInvoiceDeleted {
			t.Fatalf("delete %d: unexpected outcome %+v", i+1, out)
		}
	}
	if len(f.repo.invoices) != 0 {
		t.Fatalf("expected invoice removed")
	}
	if len(f.cache.paths) != 2 {
		t.Fatalf("expected two revalidations, got %v", f.cache.paths)
	}
}

func TestInvoiceService_DeleteInvoice_DatabaseError(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.err = errors.New("delete failed")

	out := f.svc.DeleteInvoice(context.Background(), "inv-1")
	if out.Kind != ports.OutcomeErrors || out.State.Message != MsgDeleteDatabaseError {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(f.cache.paths) != 0 {
		t.Fatalf("expected no revalidation on failure")
	}
}

func TestInvoiceService_ListInvoices_Paging(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.total = 13

	page, err := f.svc.ListInvoices(context.Background(), ports.ListInvoicesInput{Query: "lee", Page: 3})
	if err != nil {
		t.Fatalf("ListInvoices returned error: %v", err)
	}
	if page.TotalPages != 3 || page.Page != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if f.repo.lastList.Offset != 12 || f.repo.lastList.Limit != 6 || f.repo.lastList.Query != "lee" {
		t.Fatalf("unexpected filter: %+v", f.repo.lastList)
	}

	page, err = f.svc.ListInvoices(context.Background(), ports.ListInvoicesInput{Page: 0})
	if err != nil {
		t.Fatalf("ListInvoices returned error: %v", err)
	}
	if page.Page != 1 || f.repo.lastList.Offset != 0 {
		t.Fatalf("expected page clamped to 1, got %+v / %+v", page, f.repo.lastList)
	}
}

func TestInvoiceService_GetInvoice(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.invoices["inv-1"] = &domain.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 1999, Status: domain.StatusPaid, Date: "2024-01-01"}

	detail, err := f.svc.GetInvoice(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("GetInvoice returned error: %v", err)
	}
	if detail.Amount.StringFixed(2) != "19.99" {
		t.Fatalf("expected 19.99, got %s", detail.Amount.StringFixed(2))
	}

	if _, err := f.svc.GetInvoice(context.Background(), "missing"); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}
