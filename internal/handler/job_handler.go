package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
	"jobace/internal/service"
)

// JobHandler handles job endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJobRequest represents a job posting request.
type CreateJobRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	Budget      string    `json:"budget" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Skills      []string  `json:"skills"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

// UpdateJobRequest represents an allow-listed job content patch.
type UpdateJobRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Budget      *string    `json:"budget"`
	Location    *string    `json:"location"`
	Skills      []string   `json:"skills"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateJob godoc
// @Summary Post a new job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "Job data"
// @Success 201 {object} model.Job
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}

	var req CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	budget, err := decimal.NewFromString(req.Budget)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid budget",
			Code:  "INVALID_AMOUNT",
		})
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), actor, service.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      budget,
		Location:    req.Location,
		Skills:      req.Skills,
		Deadline:    req.Deadline,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, job)
}

// ListJobs godoc
// @Summary List open jobs
// @Tags jobs
// @Produce json
// @Param category query string false "Category filter"
// @Param location query string false "Location filter"
// @Param skills query string false "Comma-separated skills filter"
// @Success 200 {array} model.Job
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c echo.Context) error {
	filter := repository.JobFilter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	}
	if skills := c.QueryParam("skills"); skills != "" {
		for _, skill := range strings.Split(skills, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				filter.Skills = append(filter.Skills, skill)
			}
		}
	}

	jobs, err := h.jobService.ListOpenJobs(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary Get a job by id
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobService.GetJob(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, job)
}

// UpdateJob godoc
// @Summary Update job content fields
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body UpdateJobRequest true "Patch"
// @Success 200 {object} model.Job
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	var req UpdateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patch := service.JobPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Skills:      req.Skills,
		Deadline:    req.Deadline,
	}
	if req.Budget != nil {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid budget",
				Code:  "INVALID_AMOUNT",
			})
		}
		patch.Budget = &budget
	}

	job, err := h.jobService.UpdateJob(c.Request().Context(), actor, id, patch)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, job)
}

// CancelJob godoc
// @Summary Cancel a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /jobs/{id}/cancel [post]
func (h *JobHandler) CancelJob(c echo.Context) error {
	return h.transition(c, h.jobService.CancelJob)
}

// CompleteJob godoc
// @Summary Mark an in-progress job completed
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /jobs/{id}/complete [post]
func (h *JobHandler) CompleteJob(c echo.Context) error {
	return h.transition(c, h.jobService.CompleteJob)
}

// ClaimJob godoc
// @Summary Claim an open job directly as a worker
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /jobs/{id}/claim [post]
func (h *JobHandler) ClaimJob(c echo.Context) error {
	return h.transition(c, h.jobService.ClaimJob)
}

func (h *JobHandler) transition(c echo.Context, fn func(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error)) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	job, err := fn(c.Request().Context(), actor, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, job)
}

// DeleteJob godoc
// @Summary Delete a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	if err := h.jobService.DeleteJob(c.Request().Context(), actor, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "job deleted successfully"})
}
