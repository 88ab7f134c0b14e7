package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jobace/internal/model"
)

// Actor is the authenticated identity performing an operation. Every
// protected service method takes one; its absence is itself an
// authorization failure.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  model.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// IsWorker reports whether the actor carries the worker role.
func (a Actor) IsWorker() bool { return a.Role == model.RoleWorker }

// IsClient reports whether the actor carries the client role.
func (a Actor) IsClient() bool { return a.Role == model.RoleClient }

// ActorFromContext extracts the authenticated actor placed in the request
// context by the JWT middleware.
func ActorFromContext(c echo.Context) (Actor, error) {
	claims, ok := c.Get("user").(*Claims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return Actor{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
