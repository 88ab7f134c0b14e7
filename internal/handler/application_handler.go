package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/service"
)

// ApplicationHandler handles application endpoints.
type ApplicationHandler struct {
	appService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// CreateApplicationRequest represents a worker's bid for a job.
type CreateApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CoverLetter string `json:"cover_letter" validate:"required"`
}

// DecideApplicationRequest carries the client's decision on a pending application.
type DecideApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// Create godoc
// @Summary Apply for an open job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateApplicationRequest true "Application data"
// @Success 201 {object} model.Application
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Create(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job_id")
	}

	app, err := h.appService.Apply(c.Request().Context(), actor, jobID, req.CoverLetter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, app)
}

// ListForJob godoc
// @Summary List applications for a job (owning client only)
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job ID"
// @Success 200 {array} model.Application
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/job/{jobId} [get]
func (h *ApplicationHandler) ListForJob(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	apps, err := h.appService.ListForJob(c.Request().Context(), actor, jobID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, apps)
}

// ListForWorker godoc
// @Summary List the caller's own applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Application
// @Router /applications/worker [get]
func (h *ApplicationHandler) ListForWorker(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}

	apps, err := h.appService.ListForWorker(c.Request().Context(), actor)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, apps)
}

// Decide godoc
// @Summary Accept or reject a pending application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body DecideApplicationRequest true "Decision"
// @Success 200 {object} model.Application
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /applications/{id}/status [patch]
func (h *ApplicationHandler) Decide(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	var req DecideApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.appService.Decide(c.Request().Context(), actor, id, model.ApplicationStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, app)
}

// Delete godoc
// @Summary Delete an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	if err := h.appService.Delete(c.Request().Context(), actor, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "application deleted successfully"})
}
