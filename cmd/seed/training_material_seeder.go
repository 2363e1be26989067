package main

import (
	"log"

	"onboarding-buddy-be/internal/model"

	"gorm.io/gorm"
)

var starterMaterials = []model.TrainingMaterial{
	{
		Title:    "Welcome to the Team",
		Category: "General",
		Content:  "Your first week covers laptop setup, meeting your buddy, and a walkthrough of the product. Your manager schedules a check-in at the end of each of your first four weeks.",
		IsActive: true,
	},
	{
		Title:         "Vacation and Leave Policy",
		Category:      "HR",
		Content:       "Full-time employees receive 20 vacation days per year, accrued monthly. Submit requests in the HR portal at least two weeks ahead. Sick leave does not need advance approval.",
		InternalNotes: "Contractors follow their agency's leave policy.",
		IsActive:      true,
	},
	{
		Title:    "Expense Reimbursement",
		Category: "Finance",
		Content:  "Submit receipts within 30 days through the finance tool. Travel over 500 USD needs manager pre-approval. Reimbursements are paid with the next payroll run.",
		IsActive: true,
	},
	{
		Title:    "Engineering Workflow",
		Category: "Engineering",
		Content:  "All changes go through pull requests with at least one approving review. The main branch deploys to staging automatically; production deploys happen Tuesday and Thursday.",
		IsActive: true,
	},
	{
		Title:    "Security Basics",
		Category: "IT",
		Content:  "Enable two-factor authentication on every work account. Report lost devices to IT within one hour. Never share credentials over chat or email.",
		IsActive: true,
	},
}

// SeedTrainingMaterials inserts the starter set, skipping titles that already exist.
func SeedTrainingMaterials(db *gorm.DB) {
	for _, m := range starterMaterials {
		var existing model.TrainingMaterial
		if err := db.Where("title = ?", m.Title).First(&existing).Error; err == nil {
			log.Printf("Material '%s' already exists, skipping...", m.Title)
			continue
		}

		if err := db.Create(&m).Error; err != nil {
			log.Printf("Error creating material '%s': %v", m.Title, err)
		} else {
			log.Printf("Created material: %s (%s)", m.Title, m.Category)
		}
	}
}
