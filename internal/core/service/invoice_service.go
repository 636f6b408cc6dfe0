package service

import (
	"context"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
	"github.com/99minutos/invoice-dashboard/internal/core/validation"
)

// User-facing messages of the invoice form actions.
const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgCreateDatabaseError = "Database error. Failed to create invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgUpdateDatabaseError = "Database Error: Failed to Update Invoice."
	MsgDeleteDatabaseError = "Database Error: Failed to Delete Invoice."
	MsgInvoiceDeleted      = "Deleted Invoice."
	invoicesPerPage        = 6
)

// InvoiceService implements the invoice form actions. It holds no state
// between calls; the repository owns every invoice.
type InvoiceService struct {
	repo      ports.InvoiceRepository
	customers ports.CustomerRepository
	cache     ports.Revalidator
	audit     ports.AuditSink
	logger    zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewInvoiceService wires the service. audit may be nil, in which case no
// audit trail is kept.
func NewInvoiceService(
	repo ports.InvoiceRepository,
	customers ports.CustomerRepository,
	cache ports.Revalidator,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		customers: customers,
		cache:     cache,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateInvoice validates the form and inserts a new invoice dated today.
// Success ends in a redirect to the listing; every failure is returned as
// State for re-display.
func (s *InvoiceService) CreateInvoice(ctx context.Context, form url.Values) ports.Outcome {
	fields, fieldErrs := validation.ParseInvoiceForm(form)
	if !fieldErrs.Empty() {
		s.logger.Debug().Interface("errors", fieldErrs).Msg("create invoice: invalid form")
		return ports.Errors(ports.State{
			Errors:  fieldErrs,
			Message: MsgCreateMissingFields,
		})
	}

	inv := &domain.Invoice{
		ID:         s.newID(),
		CustomerID: fields.CustomerID,
		Amount:     fields.AmountInCents(),
		Status:     fields.Status,
		Date:       domain.IssueDate(s.now()),
	}

	s.logger.Info().
		Str("customer_id", inv.CustomerID).
		Int64("amount", inv.Amount).
		Str("status", string(inv.Status)).
		Msg("creating invoice")

	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error().Err(err).Str("customer_id", inv.CustomerID).Msg("failed to create invoice")
		return ports.Errors(ports.State{
			Error: &ports.ErrorMessage{Message: MsgCreateDatabaseError},
		})
	}

	s.revalidate(ctx)
	s.record(ctx, domain.AuditInvoiceCreated, inv)
	return ports.Redirect(ports.InvoicesRoute)
}

// UpdateInvoice rewrites customer, amount and status of invoice id. The id
// and issue date are never taken from the form.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, form url.Values) ports.Outcome {
	fields, fieldErrs := validation.ParseInvoiceForm(form)
	if !fieldErrs.Empty() {
		s.logger.Debug().Str("invoice_id", id).Interface("errors", fieldErrs).Msg("update invoice: invalid form")
		return ports.Errors(ports.State{
			Errors:  fieldErrs,
			Message: MsgUpdateMissingFields,
		})
	}

	inv := &domain.Invoice{
		ID:         id,
		CustomerID: fields.CustomerID,
		Amount:     fields.AmountInCents(),
		Status:     fields.Status,
	}

	s.logger.Info().
		Str("invoice_id", id).
		Str("customer_id", inv.CustomerID).
		Int64("amount", inv.Amount).
		Str("status", string(inv.Status)).
		Msg("updating invoice")

	if err := s.repo.Update(ctx, inv); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to update invoice")
		return ports.Errors(ports.State{Message: MsgUpdateDatabaseError})
	}

	s.revalidate(ctx)
	s.record(ctx, domain.AuditInvoiceUpdated, inv)
	return ports.Redirect(ports.InvoicesRoute)
}

// DeleteInvoice removes invoice id and refreshes the listing in place.
// Deleting an id that no longer exists is not an error.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) ports.Outcome {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to delete invoice")
		return ports.Errors(ports.State{Message: MsgDeleteDatabaseError})
	}

	s.logger.Info().Str("invoice_id", id).Msg("invoice deleted")

	s.revalidate(ctx)
	s.record(ctx, domain.AuditInvoiceDeleted, &domain.Invoice{ID: id})
	return ports.Rendered(ports.State{Message: MsgInvoiceDeleted})
}

// ListInvoices returns one page of invoices matching input.Query.
func (s *InvoiceService) ListInvoices(ctx context.Context, input ports.ListInvoicesInput) (*ports.InvoicePage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	items, err := s.repo.List(ctx, ports.ListInvoicesFilter{
		Query:  input.Query,
		Limit:  invoicesPerPage,
		Offset: (page - 1) * invoicesPerPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list invoices")
	}

	total, err := s.repo.Count(ctx, input.Query)
	if err != nil {
		return nil, errors.Wrap(err, "count invoices")
	}

	return &ports.InvoicePage{
		Items:      items,
		Page:       page,
		TotalPages: int((total + invoicesPerPage - 1) / invoicesPerPage),
	}, nil
}

// GetInvoice loads an invoice for the edit form.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*ports.InvoiceDetail, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get invoice %s", id)
	}
	return &ports.InvoiceDetail{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     decimal.New(inv.Amount, -2),
		Status:     inv.Status,
		Date:       inv.Date,
	}, nil
}

func (s *InvoiceService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return customers, nil
}

// revalidate is best effort: a stale listing must not undo a committed write.
func (s *InvoiceService) revalidate(ctx context.Context) {
	if err := s.cache.Revalidate(ctx, ports.InvoicesRoute); err != nil {
		s.logger.Warn().Err(err).Str("path", ports.InvoicesRoute).Msg("failed to revalidate listing")
	}
}

func (s *InvoiceService) record(ctx context.Context, action domain.AuditAction, inv *domain.Invoice) {
	if s.audit == nil {
		return
	}
	event := domain.AuditEvent{
		InvoiceID: inv.ID,
		Action:    action,
		Amount:    inv.Amount,
		Status:    inv.Status,
		At:        s.now().UTC(),
	}
	if id, ok := domain.IdentityFromContext(ctx); ok {
		event.Actor = id.Email
	}
	s.audit.Enqueue(event)
}
