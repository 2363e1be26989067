package main

import (
	"log"

	"onboarding-buddy-be/internal/config"
	"onboarding-buddy-be/internal/model"
	"onboarding-buddy-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: failed to load configuration: %v", err)
	}
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.FileUpload{},
		&model.TrainingMaterial{},
		&model.TrainingMaterialAttachment{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Search runs ILIKE over these columns.
	log.Println("Step 3: Creating search indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_training_materials_title_trgm ON training_materials USING gin (title gin_trgm_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_training_materials_content_trgm ON training_materials USING gin (content gin_trgm_ops);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: database migration completed.")
}
