package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/invoicing-system/internal/api/metrics"
	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoice operations.
type InvoiceHandler struct {
	service ports.InvoiceService
	now     func() time.Time
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service, now: func() time.Time { return time.Now().UTC() }}
}

func (h *InvoiceHandler) bindList(c echo.Context) (ports.Actor, ports.ListInvoicesFilter, error) {
	actor, err := ctxActor(c)
	if err != nil {
		return ports.Actor{}, ports.ListInvoicesFilter{}, err
	}
	var q listInvoicesQuery
	if err := c.Bind(&q); err != nil {
		return ports.Actor{}, ports.ListInvoicesFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return ports.Actor{}, ports.ListInvoicesFilter{}, err
	}
	return actor, toListFilter(q), nil
}

// ListMine handles GET /v1/invoices.
//
// @Summary      List own invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Match on invoice number, client name or client e-mail"
// @Param        status  query     string  false  "all, draft, sent, paid, overdue or cancelled"
// @Param        page    query     int     false  "1-based page"
// @Param        limit   query     int     false  "Page size (default 5, max 100)"
// @Success      200     {object}  invoicePageResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/invoices [get]
func (h *InvoiceHandler) ListMine(c echo.Context) error {
	actor, filter, err := h.bindList(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListMine(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoicePageResponse(page, h.now()))
}

// ListAll handles GET /v1/admin/invoices.
//
// @Summary      List every invoice
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Match on invoice number, client name or client e-mail"
// @Param        status  query     string  false  "all, draft, sent, paid, overdue or cancelled"
// @Param        page    query     int     false  "1-based page"
// @Param        limit   query     int     false  "Page size (default 5, max 100)"
// @Success      200     {object}  invoicePageResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/admin/invoices [get]
func (h *InvoiceHandler) ListAll(c echo.Context) error {
	actor, filter, err := h.bindList(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListAll(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoicePageResponse(page, h.now()))
}

// Stats handles GET /v1/invoices/stats.
//
// @Summary      Own invoice statistics
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  invoiceStatsResponse
// @Router       /v1/invoices/stats [get]
func (h *InvoiceHandler) Stats(c echo.Context) error {
	return h.stats(c, ports.ScopeMine)
}

// AllStats handles GET /v1/admin/invoices/stats.
//
// @Summary      Invoice statistics across all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  invoiceStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/invoices/stats [get]
func (h *InvoiceHandler) AllStats(c echo.Context) error {
	return h.stats(c, ports.ScopeAll)
}

func (h *InvoiceHandler) stats(c echo.Context, scope ports.Scope) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), actor, scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceStatsResponse(stats))
}

// Charts handles GET /v1/invoices/charts.
//
// @Summary      Own dashboard charts
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  chartsResponse
// @Router       /v1/invoices/charts [get]
func (h *InvoiceHandler) Charts(c echo.Context) error {
	return h.charts(c, ports.ScopeMine)
}

// AllCharts handles GET /v1/admin/invoices/charts. Only this scope includes
// the top clients chart.
//
// @Summary      Dashboard charts across all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  chartsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/invoices/charts [get]
func (h *InvoiceHandler) AllCharts(c echo.Context) error {
	return h.charts(c, ports.ScopeAll)
}

func (h *InvoiceHandler) charts(c echo.Context, scope ports.Scope) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Charts(c.Request().Context(), actor, scope, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChartsResponse(summary))
}

// NextNumber handles GET /v1/invoices/next-number.
//
// @Summary      Preview the next invoice number
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  nextNumberResponse
// @Router       /v1/invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c echo.Context) error {
	number, err := h.service.NextInvoiceNumber(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nextNumberResponse{InvoiceNumber: number})
}

// Create handles POST /v1/invoices.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInvoiceRequest  true  "Invoice details"
// @Success      201   {object}  invoiceResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inv, err := h.service.Create(c.Request().Context(), actor, toCreateInvoiceInput(req))
	if err != nil {
		return err
	}
	metrics.InvoicesCreatedTotal.WithLabelValues(inv.Currency).Inc()

	return c.JSON(http.StatusCreated, toInvoiceResponse(*inv, h.now()))
}

// Get handles GET /v1/invoices/:id.
//
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  invoiceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	inv, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(*inv, h.now()))
}

// Update handles PATCH /v1/invoices/:id.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Invoice id"
// @Param        body  body      updateInvoiceRequest  true  "Fields to change"
// @Success      200   {object}  invoiceResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/invoices/{id} [patch]
func (h *InvoiceHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inv, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toInvoicePatch(req))
	if err != nil {
		return err
	}
	metrics.InvoiceMutationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, toInvoiceResponse(*inv, h.now()))
}

// Delete handles DELETE /v1/invoices/:id.
//
// @Summary      Delete an invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id   path  string  true  "Invoice id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	removed, err := h.service.Delete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrInvoiceNotFound
	}
	metrics.InvoiceMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
