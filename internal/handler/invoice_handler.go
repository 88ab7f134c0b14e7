package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/service"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest represents an invoice creation request.
type CreateInvoiceRequest struct {
	JobID       string    `json:"job_id" validate:"required,uuid"`
	Amount      string    `json:"amount" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// UpdateInvoiceStatusRequest represents an invoice status patch.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid cancelled"`
}

// Create godoc
// @Summary Create an invoice for a job
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	invoice, err := h.invoiceService.Create(c.Request().Context(), actor, service.CreateInvoiceInput{
		JobID:       jobID,
		Amount:      amount,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, invoice)
}

// List godoc
// @Summary List invoices visible to the caller
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} model.Invoice
// @Router /invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}

	status := model.InvoiceStatus(c.QueryParam("status"))
	invoices, err := h.invoiceService.List(c.Request().Context(), actor, status)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get godoc
// @Summary Get an invoice by id
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.Invoice
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	invoice, err := h.invoiceService.Get(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateStatus godoc
// @Summary Update an invoice status
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	var req UpdateInvoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request().Context(), actor, id, model.InvoiceStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, invoice)
}
