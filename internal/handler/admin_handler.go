package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/service"
)

// AdminHandler handles moderation endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// PagedResponse wraps a paginated admin listing.
type PagedResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func pagingParams(c echo.Context) (search string, page, limit int) {
	search = c.QueryParam("search")
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return search, page, limit
}

// ListUsers godoc
// @Summary List users with search and pagination
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	search, page, limit := pagingParams(c)

	users, total, err := h.adminService.ListUsers(c.Request().Context(), actor, search, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, PagedResponse{Items: users, Total: total, Page: page, Limit: limit})
}

// ListJobs godoc
// @Summary List jobs with search and pagination
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against title"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/jobs [get]
func (h *AdminHandler) ListJobs(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	search, page, limit := pagingParams(c)

	jobs, total, err := h.adminService.ListJobs(c.Request().Context(), actor, search, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, PagedResponse{Items: jobs, Total: total, Page: page, Limit: limit})
}

// ListApplications godoc
// @Summary List applications with search and pagination
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against job title"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PagedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/applications [get]
func (h *AdminHandler) ListApplications(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	search, page, limit := pagingParams(c)

	apps, total, err := h.adminService.ListApplications(c.Request().Context(), actor, search, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, PagedResponse{Items: apps, Total: total, Page: page, Limit: limit})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	return h.deleteByID(c, h.adminService.DeleteUser, "invalid user id", "user deleted successfully")
}

// DeleteJob godoc
// @Summary Delete a job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/jobs/{id} [delete]
func (h *AdminHandler) DeleteJob(c echo.Context) error {
	return h.deleteByID(c, h.adminService.DeleteJob, "invalid job id", "job deleted successfully")
}

// DeleteApplication godoc
// @Summary Delete an application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/applications/{id} [delete]
func (h *AdminHandler) DeleteApplication(c echo.Context) error {
	return h.deleteByID(c, h.adminService.DeleteApplication, "invalid application id", "application deleted successfully")
}

func (h *AdminHandler) deleteByID(
	c echo.Context,
	del func(ctx context.Context, actor auth.Actor, id uuid.UUID) error,
	badIDMsg, okMsg string,
) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, badIDMsg)
	}

	if err := del(c.Request().Context(), actor, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": okMsg})
}
