package main

import (
	"fmt"
	"log"

	"formflow_app_go/config"
	"formflow_app_go/db"
	"formflow_app_go/models"
	"formflow_app_go/services"
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
	if err := db.AutoMigrate(&models.Template{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	created, err := services.SeedTemplates(db.DB)
	if err != nil {
		log.Fatalf("Failed to seed templates: %v", err)
	}

	fmt.Printf("Seeded %d templates\n", created)
}
