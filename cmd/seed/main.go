package main

import (
	"log"

	"onboarding-buddy-be/internal/config"
	"onboarding-buddy-be/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: failed to load configuration: %v", err)
	}
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding training materials...")
	SeedTrainingMaterials(db)
	log.Println("Training material seeding completed!")
}
