package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/invoice-dashboard/internal/api/metrics"
	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

// InvoiceHandler serves the invoice dashboard pages and form actions.
type InvoiceHandler struct {
	service ports.InvoiceService
	pages   ports.PageCache
	log     zerolog.Logger
}

// NewInvoiceHandler wires the handler. pages may be nil to disable the
// listing cache.
func NewInvoiceHandler(service ports.InvoiceService, pages ports.PageCache, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, pages: pages, log: log}
}

// List handles GET /dashboard/invoices.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        query  query     string  false  "Matches customer name, email, amount, date or status"
// @Param        page   query     int     false  "1-based page number"
// @Success      200    {object}  invoiceListResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /dashboard/invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	var q listInvoicesQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if q.Page == 0 {
		q.Page = 1
	}

	ctx := c.Request().Context()
	key := listingCacheKey(q)

	cacheable := false
	var gen int64
	if h.pages != nil {
		body, ok, err := h.pages.Get(ctx, key)
		if err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("page cache lookup failed")
		}
		if ok {
			c.Response().Header().Set("X-Cache", "HIT")
			return c.JSONBlob(http.StatusOK, body)
		}
		if gen, err = h.pages.Generation(ctx); err != nil {
			h.log.Warn().Err(err).Msg("page cache generation lookup failed")
		} else {
			cacheable = true
		}
	}

	page, err := h.service.ListInvoices(ctx, ports.ListInvoicesInput{Query: q.Query, Page: q.Page})
	if err != nil {
		return err
	}

	body, err := json.Marshal(toListResponse(page, q.Query))
	if err != nil {
		return errors.Wrap(err, "encode invoice listing")
	}

	if cacheable {
		err := h.pages.Set(ctx, key, body, gen)
		switch {
		case errors.Is(err, ports.ErrStalePage):
			h.log.Debug().Str("key", key).Msg("listing changed while rendering, not cached")
		case err != nil:
			h.log.Warn().Err(err).Str("key", key).Msg("page cache store failed")
		}
	}
	if h.pages != nil {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return c.JSONBlob(http.StatusOK, body)
}

// CreateForm handles GET /dashboard/invoices/create.
//
// @Summary      Data for the create invoice form
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  invoiceFormResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /dashboard/invoices/create [get]
func (h *InvoiceHandler) CreateForm(c echo.Context) error {
	customers, err := h.service.ListCustomers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoiceFormResponse{Customers: toCustomerResponses(customers)})
}

// EditForm handles GET /dashboard/invoices/:id/edit.
//
// @Summary      Data for the edit invoice form
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  invoiceFormResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /dashboard/invoices/{id}/edit [get]
func (h *InvoiceHandler) EditForm(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.service.GetInvoice(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "invoice not found"})
		}
		return err
	}

	customers, err := h.service.ListCustomers(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, invoiceFormResponse{
		Invoice:   toDetailResponse(detail),
		Customers: toCustomerResponses(customers),
	})
}

// Create handles POST /dashboard/invoices.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        customerId  formData  string  true  "Customer id"
// @Param        amount      formData  string  true  "Amount in major units"
// @Param        status      formData  string  true  "pending or paid"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  stateResponse
// @Failure      500  {object}  stateResponse
// @Router       /dashboard/invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	form, err := formValues(c)
	if err != nil {
		return err
	}
	start := time.Now()
	out := h.service.CreateInvoice(c.Request().Context(), form)
	return h.respond(c, "create", start, out)
}

// Update handles POST /dashboard/invoices/:id.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id          path      string  true  "Invoice id"
// @Param        customerId  formData  string  true  "Customer id"
// @Param        amount      formData  string  true  "Amount in major units"
// @Param        status      formData  string  true  "pending or paid"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  stateResponse
// @Failure      500  {object}  stateResponse
// @Router       /dashboard/invoices/{id} [post]
func (h *InvoiceHandler) Update(c echo.Context) error {
	form, err := formValues(c)
	if err != nil {
		return err
	}
	start := time.Now()
	out := h.service.UpdateInvoice(c.Request().Context(), c.Param("id"), form)
	return h.respond(c, "update", start, out)
}

// Delete handles POST /dashboard/invoices/:id/delete and DELETE /dashboard/invoices/:id.
//
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  stateResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  stateResponse
// @Router       /dashboard/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	start := time.Now()
	out := h.service.DeleteInvoice(c.Request().Context(), c.Param("id"))
	return h.respond(c, "delete", start, out)
}

// respond finishes a form action: redirects navigate, everything else is
// returned as State for the form to re-display.
func (h *InvoiceHandler) respond(c echo.Context, action string, start time.Time, out ports.Outcome) error {
	metrics.InvoiceMutationDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())

	switch out.Kind {
	case ports.OutcomeRedirect:
		metrics.InvoiceMutationsTotal.WithLabelValues(action, "ok").Inc()
		return c.Redirect(http.StatusSeeOther, out.RedirectTo)
	case ports.OutcomeErrors:
		if len(out.State.Errors) > 0 {
			metrics.InvoiceMutationsTotal.WithLabelValues(action, "invalid").Inc()
			return c.JSON(http.StatusUnprocessableEntity, out.State)
		}
		metrics.InvoiceMutationsTotal.WithLabelValues(action, "error").Inc()
		return c.JSON(http.StatusInternalServerError, out.State)
	default:
		metrics.InvoiceMutationsTotal.WithLabelValues(action, "ok").Inc()
		return c.JSON(http.StatusOK, out.State)
	}
}

// listingCacheKey normalises the query so equivalent URLs share an entry.
func listingCacheKey(q listInvoicesQuery) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	return ports.InvoicesRoute + "?" + v.Encode()
}
