package main

import (
	"log"
	"net/http"
	"os"

	_ "jobace/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"jobace/internal/auth"
	"jobace/internal/cache"
	"jobace/internal/config"
	"jobace/internal/db"
	"jobace/internal/handler"
	"jobace/internal/model"
	"jobace/internal/repository"
	"jobace/internal/router"
	"jobace/internal/service"
)

// @title JobAce API
// @version 1.0
// @description Job marketplace API with job postings, applications, invoicing, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Printf("database close: %v", err)
		}
	}()

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Invoice{},
			&model.Application{},
			&model.Job{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Job{},
		&model.Application{},
		&model.Invoice{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	jobRepo := repository.NewJobRepository(gormDB)
	appRepo := repository.NewApplicationRepository(gormDB)
	invoiceRepo := repository.NewInvoiceRepository(gormDB)
	txRunner := repository.NewTxRunner(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	jobService := service.NewJobService(jobRepo, txRunner, cacheClient)
	applicationService := service.NewApplicationService(appRepo, jobRepo, txRunner, cacheClient)
	invoiceService := service.NewInvoiceService(invoiceRepo, jobRepo)
	adminService := service.NewAdminService(userRepo, jobRepo, appRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	googleAuthHandler := handler.NewGoogleAuthHandler(cfg, authService, cacheClient)
	facebookAuthHandler := handler.NewFacebookAuthHandler(cfg, authService, cacheClient)
	userHandler := handler.NewUserHandler(userService)
	jobHandler := handler.NewJobHandler(jobService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		authHandler,
		googleAuthHandler,
		facebookAuthHandler,
		userHandler,
		jobHandler,
		applicationHandler,
		invoiceHandler,
		adminHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
