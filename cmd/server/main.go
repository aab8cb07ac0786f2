package main

import (
	"log"
	"time"

	"formflow_app_go/config"
	"formflow_app_go/db"
	"formflow_app_go/handlers"
	"formflow_app_go/middleware"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Form{}, &models.Step{}, &models.Field{},
		&models.Submission{}, &models.Template{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the built-in template catalog (idempotent by name)
	if created, err := services.SeedTemplates(db.DB); err != nil {
		log.Fatalf("Failed to seed templates: %v", err)
	} else if created > 0 {
		log.Printf("Seeded %d built-in templates", created)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Auth routes (no session required)
	e.POST("/api/auth/register", handlers.RegisterHandler, middleware.LoginRateLimiter.Middleware())
	e.POST("/api/auth/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())
	e.POST("/api/auth/logout", handlers.LogoutHandler)

	// Public respondent routes
	e.GET("/f/:id", handlers.PublicFormHandler)
	e.POST("/f/:id/submissions", handlers.PublicSubmitHandler, middleware.PublicSubmissionRateLimiter.Middleware())

	// Builder routes (authentication required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.MeHandler)

		api.GET("/forms", handlers.ListFormsHandler)
		api.POST("/forms", handlers.CreateFormHandler)
		api.POST("/forms/from-template", handlers.CreateFormFromTemplateHandler)
		api.GET("/forms/:id", handlers.GetFormHandler)
		api.PUT("/forms/:id", handlers.UpdateFormHandler)
		api.DELETE("/forms/:id", handlers.DeleteFormHandler)
		api.PUT("/forms/:id/tree", handlers.ReplaceFormTreeHandler)
		api.POST("/forms/:id/publish", handlers.PublishFormHandler)
		api.POST("/forms/:id/unpublish", handlers.UnpublishFormHandler)

		api.POST("/forms/:id/steps", handlers.CreateStepHandler)
		api.PUT("/steps/:id", handlers.UpdateStepHandler)
		api.DELETE("/steps/:id", handlers.DeleteStepHandler)

		api.POST("/steps/:id/fields", handlers.CreateFieldHandler)
		api.PUT("/fields/:id", handlers.UpdateFieldHandler)
		api.DELETE("/fields/:id", handlers.DeleteFieldHandler)

		api.GET("/forms/:id/submissions", handlers.ListSubmissionsHandler)
		api.GET("/forms/:id/submissions/export", handlers.ExportSubmissionsHandler)
		api.GET("/forms/:id/submissions/:submissionId", handlers.GetSubmissionHandler)
		api.PUT("/forms/:id/submissions/:submissionId", handlers.UpdateSubmissionHandler)
		api.DELETE("/forms/:id/submissions/:submissionId", handlers.DeleteSubmissionHandler)

		api.GET("/templates", handlers.ListTemplatesHandler)
		api.GET("/templates/:id", handlers.GetTemplateHandler)
		api.POST("/templates", handlers.CreateTemplateHandler)
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler)
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler)

		aiRoutes := api.Group("/ai")
		aiRoutes.Use(middleware.AIGenerationRateLimiter.Middleware())
		{
			aiRoutes.POST("/generate-form", handlers.GenerateFormHandler)
			aiRoutes.POST("/generate-fields", handlers.GenerateFieldsHandler)
			aiRoutes.POST("/forms/:id/suggest-fields", handlers.SuggestFieldsHandler)
		}
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
