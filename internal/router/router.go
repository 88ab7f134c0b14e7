package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jobace/internal/auth"
	"jobace/internal/config"
	"jobace/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	googleAuthHandler *handler.GoogleAuthHandler,
	facebookAuthHandler *handler.FacebookAuthHandler,
	userHandler *handler.UserHandler,
	jobHandler *handler.JobHandler,
	applicationHandler *handler.ApplicationHandler,
	invoiceHandler *handler.InvoiceHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	if googleAuthHandler != nil {
		api.GET("/auth/google", googleAuthHandler.Login)
		api.GET("/auth/google/callback", googleAuthHandler.Callback)
	}
	if facebookAuthHandler != nil {
		api.GET("/auth/facebook", facebookAuthHandler.Login)
		api.GET("/auth/facebook/callback", facebookAuthHandler.Callback)
	}

	// Open job board is readable without a token.
	api.GET("/jobs", jobHandler.ListJobs)
	api.GET("/jobs/:id", jobHandler.GetJob)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	}))

	// User routes
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/profile", userHandler.GetProfile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)

	// Job routes
	secured.POST("/jobs", jobHandler.CreateJob)
	secured.PUT("/jobs/:id", jobHandler.UpdateJob)
	secured.POST("/jobs/:id/cancel", jobHandler.CancelJob)
	secured.POST("/jobs/:id/complete", jobHandler.CompleteJob)
	secured.POST("/jobs/:id/claim", jobHandler.ClaimJob)
	secured.DELETE("/jobs/:id", jobHandler.DeleteJob)

	// Application routes
	secured.POST("/applications", applicationHandler.Create)
	secured.GET("/applications/job/:jobId", applicationHandler.ListForJob)
	secured.GET("/applications/worker", applicationHandler.ListForWorker)
	secured.PATCH("/applications/:id/status", applicationHandler.Decide)
	secured.DELETE("/applications/:id", applicationHandler.Delete)

	// Invoice routes
	secured.POST("/invoices", invoiceHandler.Create)
	secured.GET("/invoices", invoiceHandler.List)
	secured.GET("/invoices/:id", invoiceHandler.Get)
	secured.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)

	// Admin routes
	admin := secured.Group("/admin")
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/jobs", adminHandler.ListJobs)
	admin.GET("/applications", adminHandler.ListApplications)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.DELETE("/jobs/:id", adminHandler.DeleteJob)
	admin.DELETE("/applications/:id", adminHandler.DeleteApplication)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
