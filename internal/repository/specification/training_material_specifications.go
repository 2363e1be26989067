package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// CanonicalMaterialOrder is the category-then-title order every material list uses.
type CanonicalMaterialOrder struct{}

func (s CanonicalMaterialOrder) Apply(db *gorm.DB) *gorm.DB {
	db = OrderBy{Column: "category"}.Apply(db)
	return OrderBy{Column: "title"}.Apply(db)
}

// WithAttachments preloads attachments together with their uploaded file.
type WithAttachments struct{}

func (s WithAttachments) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Attachments.FileUpload")
}

type ByTrainingMaterialID struct {
	TrainingMaterialID uuid.UUID
}

func (s ByTrainingMaterialID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("training_material_id = ?", s.TrainingMaterialID)
}

// MatchingTerm is a case-insensitive substring match over title, category and content.
type MatchingTerm struct {
	Term string
}

func (s MatchingTerm) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Term + "%"
	return db.Where("(title ILIKE ? OR category ILIKE ? OR content ILIKE ?)", like, like, like)
}
